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
package source

import (
	"testing"

	"github.com/consensys/go-covered/pkg/util/assert"
)

func TestPosition_01(t *testing.T) {
	p := NewPosition(2, 4, 3, 1)
	//
	assert.True(t, p.IsValid())
	assert.False(t, Position{}.IsValid())
	assert.True(t, p.StartsAt(2, 4))
	assert.True(t, p.EndsAt(3, 1))
	assert.Equal(t, "2.4-3.1", p.String())
}

func TestPosition_02(t *testing.T) {
	p := NewPosition(2, 4, 3, 1)
	//
	assert.True(t, p.Contains(2, 4))
	assert.True(t, p.Contains(2, 80))
	assert.True(t, p.Contains(3, 0))
	assert.False(t, p.Contains(2, 3))
	assert.False(t, p.Contains(3, 2))
	assert.Equal(t, -1, p.CompareStart(2, 5))
	assert.Equal(t, 1, p.CompareEnd(3, 0))
	assert.Equal(t, 0, p.CompareEnd(3, 1))
}

func TestPosition_03(t *testing.T) {
	// Ordered by first character, then last
	assert.Equal(t, -1, Compare(At(1, 0), At(1, 1)))
	assert.Equal(t, -1, Compare(NewPosition(1, 0, 1, 2), NewPosition(1, 0, 1, 5)))
	assert.Equal(t, 1, Compare(At(2, 0), NewPosition(1, 9, 4, 0)))
	assert.Equal(t, 0, Compare(At(3, 3), At(3, 3)))
}

func TestPosition_04(t *testing.T) {
	assert.Panics(t, func() { NewPosition(0, 0, 1, 0) })
	assert.Panics(t, func() { NewPosition(1, -1, 1, 0) })
	assert.Panics(t, func() { NewPosition(2, 0, 1, 0) })
	assert.Panics(t, func() { NewPosition(1, 5, 1, 4) })
}

func TestSourceFile_01(t *testing.T) {
	file := NewSourceFile("top.v", []byte("module top;\n  wire a;\nendmodule"))
	lines := file.Lines()
	//
	assert.Equal(t, "top.v", file.Filename())
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "  wire a;", lines[1].String())
	assert.Equal(t, 2, lines[1].Number())
	assert.Equal(t, 12, lines[1].Start())
	assert.Equal(t, 9, lines[1].Length())
}

func TestSourceFile_02(t *testing.T) {
	file := NewSourceFile("top.v", []byte("module top;\n  wire a;\nendmodule"))
	//
	checkText(t, file, NewPosition(1, 7, 1, 9), "top")
	checkText(t, file, NewPosition(1, 10, 2, 5), ";\n  wire")
	checkText(t, file, At(3, 0), "e")
	// Out of bounds
	checkNoText(t, file, At(4, 0))
	checkNoText(t, file, At(2, 9))
	checkNoText(t, file, NewPosition(1, 0, 3, 9))
}

// ============================================================================
// Framework
// ============================================================================

func checkText(t *testing.T, file *File, pos Position, expected string) {
	text, ok := file.Text(pos)
	//
	assert.True(t, ok, pos)
	assert.Equal(t, expected, text)
}

func checkNoText(t *testing.T, file *File, pos Position) {
	_, ok := file.Text(pos)
	//
	assert.False(t, ok, pos)
}
