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
package design

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/assert"
	"github.com/consensys/go-covered/pkg/util/source"
)

const topSource = `module top(input clk, input [3:0] a, input [3:0] b, output reg [3:0] q);
  always @(posedge clk) q <= a + b;
endmodule
`

const topDesign = `{
  "files": [{"name": "top.v", "path": "top.v"}],
  "units": [{
    "id": "top", "name": "top", "kind": "module", "file": "top.v",
    "start": [1, 0], "header": [1, 71], "end": [3, 0],
    "signals": [
      {"name": "clk", "kind": "wire"},
      {"name": "a", "kind": "wire", "packed": [{"msb": "3", "lsb": "0"}]},
      {"name": "b", "kind": "wire", "packed": [{"msb": "3", "lsb": "0"}]},
      {"name": "q", "kind": "reg", "packed": [{"msb": "3", "lsb": "0"}]}
    ],
    "exprs": [
      {"id": 1, "op": "sig", "signal": "clk", "pos": [2, 19, 2, 21]},
      {"id": 2, "op": "pedge", "left": 1, "pos": [2, 11, 2, 21]},
      {"id": 3, "op": "sig", "signal": "q", "pos": [2, 24, 2, 24]},
      {"id": 4, "op": "sig", "signal": "a", "pos": [2, 29, 2, 29]},
      {"id": 5, "op": "sig", "signal": "b", "pos": [2, 33, 2, 33]},
      {"id": 6, "op": "add", "left": 4, "right": 5, "pos": [2, 29, 2, 33]},
      {"id": 7, "op": "nassign", "left": 3, "right": 6, "pos": [2, 24, 2, 33]}
    ],
    "stmts": [
      {"id": 1, "expr": 2, "true": 2, "false": 2, "extent": [2, 9, 2, 22]},
      {"id": 2, "expr": 7, "true": 1, "false": 1, "extent": [2, 24, 2, 34]}
    ]
  }]
}`

func TestDesign_01(t *testing.T) {
	design, err := Parse([]byte(topDesign))
	assert.NoError(t, err)
	//
	assert.Equal(t, 1, len(design.Modules))
	assert.Equal(t, 2, design.Arena.Len())
	//
	top := design.Modules[0]
	assert.Equal(t, "top", top.Name)
	assert.Equal(t, ast.MODULE, top.Kind)
	assert.Equal(t, source.At(1, 71), top.Header)
	assert.Equal(t, 4, len(top.Signals))
	// Statement graph forms a loop
	s1 := design.Stmt(top.Stmts[0])
	s2 := design.Stmt(top.Stmts[1])
	assert.Equal(t, ast.PEDGE, s1.Expr.Op)
	assert.Equal(t, s2.ID, s1.NextTrue)
	assert.Equal(t, s1.ID, s2.NextTrue)
	// Expression tree
	add := s2.Expr.Right
	assert.Equal(t, ast.ADD, add.Op)
	assert.True(t, add.Left.Stmt() == s2)
	assert.Equal(t, "a", add.Left.Signal.Name)
	assert.True(t, add.Left.Signal.Packed[0].Msb.Const)
}

func TestDesign_02(t *testing.T) {
	// Unknown operation
	checkInvalid(t, `"op": "add", "left": 4`, `"op": "plus", "left": 4`)
	// Unknown signal
	checkInvalid(t, `"signal": "clk"`, `"signal": "clock"`)
	// Unknown child
	checkInvalid(t, `"left": 4, "right": 5`, `"left": 4, "right": 9`)
	// Unknown field
	checkInvalid(t, `"header": [1, 71]`, `"heading": [1, 71]`)
	// Inverted position
	checkInvalid(t, `[2, 29, 2, 33]`, `[2, 33, 2, 29]`)
	// Shared child without ownership
	checkInvalid(t, `"left": 4, "right": 5`, `"left": 4, "right": 4`)
}

func TestDesign_03(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "design.json")
	)
	//
	assert.NoError(t, os.WriteFile(path, []byte(topDesign), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "top.v"), []byte(topSource), 0644))
	//
	design, err := Load(path)
	assert.NoError(t, err)
	// Relative paths are resolved against the design
	assert.Equal(t, filepath.Join(dir, "top.v"), design.Files[0].Path)
	//
	file, err := Source(design.Files[0])
	assert.NoError(t, err)
	assert.Equal(t, 4, len(file.Lines()))
}

func TestDesign_04(t *testing.T) {
	// Every operation can appear in a design
	for op := ast.STATIC; op <= ast.TASKCALL; op++ {
		text := strings.Replace(topDesign, `"op": "sig", "signal": "q"`, `"op": "`+op.String()+`", "signal": "q"`, 1)
		_, err := Parse([]byte(text))
		assert.NoError(t, err, "operation %s", op)
	}
}

// ============================================================================
// Framework
// ============================================================================

func checkInvalid(t *testing.T, from string, to string) {
	text := strings.Replace(topDesign, from, to, 1)
	//
	assert.True(t, text != topDesign, "%s not found", from)
	//
	_, err := Parse([]byte(text))
	assert.Error(t, err, "%s accepted", to)
}
