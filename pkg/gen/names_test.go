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
	"testing"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/assert"
	"github.com/consensys/go-covered/pkg/util/source"
)

func TestNames_01(t *testing.T) {
	var (
		module = &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
		e      = &ast.Expr{Op: ast.ADD, Pos: source.NewPosition(2, 29, 2, 33)}
	)
	//
	assert.Equal(t, "\\covered$X2_2_1d0021 ", NameFor(TEMP, e, module))
	assert.Equal(t, "\\covered$C2_2_1d0021 ", NameFor(COMB, e, module))
	// Deterministic
	assert.Equal(t, NameFor(TEMP, e, module), NameFor(TEMP, e, module))
}

func TestNames_02(t *testing.T) {
	var (
		module = &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
		task   = &ast.FuncUnit{Kind: ast.TASK, Name: "check", Parent: module}
		block  = &ast.FuncUnit{Kind: ast.UNNAMED_BLOCK, Parent: task}
		inner  = &ast.FuncUnit{Kind: ast.NAMED_BLOCK, Name: "loop", Parent: block}
		e      = &ast.Expr{Op: ast.SIG, Pos: source.NewPosition(10, 4, 12, 7)}
	)
	// Unnamed blocks do not contribute to the scope
	assert.Equal(t, "\\covered$L10_12_40007$check ", NameFor(LINE, e, block))
	assert.Equal(t, "\\covered$L10_12_40007$check.loop ", NameFor(LINE, e, inner))
}

func TestNames_03(t *testing.T) {
	var (
		module = &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
		task   = &ast.FuncUnit{Kind: ast.TASK, Name: "check", Parent: module}
		pos    = source.NewPosition(3, 17, 5, 2)
		e      = &ast.Expr{Op: ast.SIG, Pos: pos}
	)
	//
	for _, kind := range Kinds {
		origin, ok := ParseName(NameFor(kind, e, task))
		assert.True(t, ok, "%s", kind)
		assert.Equal(t, kind, origin.Kind)
		assert.Equal(t, pos, origin.Pos)
		assert.Equal(t, "check", origin.Scope)
	}
}

func TestNames_04(t *testing.T) {
	for _, name := range []string{"", "q", "\\covered$", "\\covered$X", "\\covered$X1_2", "\\covered$X0_1_0 ", "\\covered$X2_1_0 ", "\\covered$X1_1_zz ", "\\covered$X1_1_3_4 ", "\\covered$X1_1_1_2_3 ", "\\covered$X1_1_100000000 "} {
		_, ok := ParseName(name)
		assert.False(t, ok, "%q", name)
	}
}

func TestNames_05(t *testing.T) {
	var (
		module = &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
		wide   = &ast.Expr{Op: ast.ADD, Pos: source.NewPosition(1, 2, 1, 0x10000)}
		wider  = &ast.Expr{Op: ast.ADD, Pos: source.NewPosition(1, 0x12345, 1, 0x12350)}
	)
	// Columns beyond 16 bits cannot be packed together
	assert.Equal(t, "\\covered$C1_1_2_10000 ", NameFor(COMB, wide, module))
	assert.Equal(t, "\\covered$C1_1_12345_12350 ", NameFor(COMB, wider, module))
	assert.True(t, NameFor(COMB, wide, module) != NameFor(COMB, &ast.Expr{Pos: source.NewPosition(1, 3, 1, 3)}, module))
	//
	for _, e := range []*ast.Expr{wide, wider} {
		origin, ok := ParseName(NameFor(COMB, e, module))
		assert.True(t, ok)
		assert.Equal(t, e.Pos, origin.Pos)
	}
	// The largest packed column still round trips
	edge := &ast.Expr{Op: ast.ADD, Pos: source.NewPosition(1, 0xffff, 1, 0xffff)}
	assert.Equal(t, "\\covered$C1_1_ffffffff ", NameFor(COMB, edge, module))
	origin, ok := ParseName(NameFor(COMB, edge, module))
	assert.True(t, ok)
	assert.Equal(t, edge.Pos, origin.Pos)
}
