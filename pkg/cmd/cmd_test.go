// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"strings"
	"testing"

	"github.com/consensys/go-covered/pkg/gen"
	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/assert"
)

const instrumented = `module top(input clk, input a, input b, output reg q);
reg \covered$e1_1_1a0001c ;
wire \covered$E1_1_1a0001c ;
reg \covered$L2_2_40010$blk ;
always @(posedge clk) begin \covered$L2_2_40010$blk  = 1'b1; q <= a; end
always @(\covered$E1_1_1a0001c ) \covered$e1_1_1a0001c  <= clk;
endmodule`

func TestNames_01(t *testing.T) {
	names := scanNames(instrumented)
	//
	assert.Equal(t, []string{
		"\\covered$e1_1_1a0001c ",
		"\\covered$E1_1_1a0001c ",
		"\\covered$L2_2_40010$blk ",
	}, names)
}

func TestNames_02(t *testing.T) {
	assert.Equal(t, 0, len(scanNames("module top; endmodule")))
	// Unterminated names are ignored
	assert.Equal(t, 0, len(scanNames("wire \\covered$L1_1_0")))
}

func TestNames_03(t *testing.T) {
	names := scanNames(instrumented)
	//
	assert.Equal(t, []string{"\\covered$L2_2_40010$blk "}, filterNames(names, "L"))
	assert.Equal(t, 2, len(filterNames(names, "Ee")))
	assert.Equal(t, 3, len(filterNames(names, "")))
	assert.Equal(t, 0, len(filterNames(names, "W")))
}

func TestNames_04(t *testing.T) {
	text := originTable(scanNames(instrumented)).String()
	//
	assert.Contains(t, text, "Position")
	assert.Contains(t, text, "2.4-2.16")
	assert.Contains(t, text, "blk")
	assert.Contains(t, text, gen.SHADOW.String())
}

func TestSummary_01(t *testing.T) {
	results := []*gen.Result{
		result("top.v", gen.Stats{gen.LINE: 2, gen.COMB: 3}),
		result("sub.v", gen.Stats{gen.LINE: 1, gen.EVENT: 1, gen.SHADOW: 1}),
	}
	//
	lines := strings.Split(summarise(results).String(), "\n")
	// Title, files and totals (plus trailing newline)
	assert.Equal(t, 5, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "File"))
	assert.True(t, strings.HasPrefix(lines[1], "top.v"))
	assert.True(t, strings.HasSuffix(lines[1], " 5"))
	assert.True(t, strings.HasSuffix(lines[2], " 3"))
	assert.True(t, strings.HasSuffix(lines[3], " 8"))
	assert.Equal(t, "", lines[4])
}

// ============================================================================
// Framework
// ============================================================================

func result(name string, stats gen.Stats) *gen.Result {
	return &gen.Result{File: &ast.File{Name: name}, Stats: stats}
}
