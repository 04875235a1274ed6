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
package gen

import (
	"strings"
	"testing"

	"github.com/consensys/go-covered/pkg/util/assert"
)

func TestBuffer_01(t *testing.T) {
	buffer := NewBuffer()
	buffer.MarkReplaceStart()
	emitLine(buffer, 1, "a", " ", "+", " ", "b")
	//
	assert.True(t, buffer.Replace("tmp1", 1, 4, 1, 4))
	assert.Equal(t, "a + tmp1", text(buffer))
}

func TestBuffer_02(t *testing.T) {
	buffer := NewBuffer()
	buffer.MarkReplaceStart()
	emitLine(buffer, 1, "x", " ", "<=", " ", "a", " ", "+", "\n")
	emitLine(buffer, 2, "    ", "b", ";")
	// Region crosses a line boundary
	assert.True(t, buffer.Replace("tmp2", 1, 5, 2, 4))
	assert.Equal(t, "x <= tmp2;", text(buffer))
}

func TestBuffer_03(t *testing.T) {
	buffer := NewBuffer()
	emitLine(buffer, 1, "a", " ", "+", " ", "b")
	// Nothing replaceable
	assert.False(t, buffer.Replace("tmp1", 1, 4, 1, 4))
	assert.Equal(t, "a + b", text(buffer))
}

func TestBuffer_04(t *testing.T) {
	buffer := NewBuffer()
	// Generated text cannot be replaced
	buffer.Emit("begin ", 0, 0, false)
	buffer.MarkReplaceStart()
	emitLine(buffer, 1, "x", " ", "=", " ", "(", "a", " ", "&", " ", "b", ")", " ", "|", " ", "(", "c", " ", "^", " ", "d", ")", ";")
	// Successive replacements in source order
	assert.True(t, buffer.Replace("t1", 1, 5, 1, 9))
	assert.True(t, buffer.Replace("t2", 1, 15, 1, 19))
	assert.Equal(t, "begin x = (t1) | (t2);", text(buffer))
	// Replacements cannot go backwards
	assert.False(t, buffer.Replace("t0", 1, 0, 1, 0))
}

func TestBuffer_05(t *testing.T) {
	buffer := NewBuffer()
	emitLine(buffer, 1, "module", " ", "m", ";", "\n")
	buffer.Commit()
	emitLine(buffer, 2, "endmodule")
	//
	buffer.InsertHold(1, "reg r;")
	assert.Equal(t, "module m;\nreg r;\nendmodule", text(buffer))
	//
	var out strings.Builder
	//
	assert.NoError(t, buffer.Flush(&out))
	assert.Equal(t, "module m;\nreg r;\nendmodule", out.String())
}

func TestBuffer_06(t *testing.T) {
	buffer := NewBuffer()
	//
	assert.True(t, buffer.IsLineBlank())
	buffer.Emit("  ", 1, 0, true)
	assert.True(t, buffer.IsLineBlank())
	buffer.Emit("x", 1, 2, true)
	assert.False(t, buffer.IsLineBlank())
}

// ============================================================================
// Framework
// ============================================================================

// Emit a sequence of source tokens on a given line, starting from column 0.
func emitLine(buffer *Buffer, line int, tokens ...string) {
	col := 0
	//
	for _, tok := range tokens {
		buffer.Emit(tok, line, col, true)
		col += len(tok)
	}
}

func text(buffer *Buffer) string {
	return strings.Join(buffer.Lines(), "\n")
}
