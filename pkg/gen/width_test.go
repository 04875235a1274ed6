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
)

func TestWidth_01(t *testing.T) {
	var (
		a = signal("a", 3, 0)
		b = signal("b")
		c = signal("c", 7, 0)
	)
	// {a, {b, c}}
	nested := concat(ref(a), concat(ref(b), ref(c)))
	// {a, b, c}
	flat := concat(ref(a), ref(b), ref(c))
	//
	checkWidth(t, 13, nested)
	checkWidth(t, 13, flat)
	// Width is unaffected by previous calculations
	checkWidth(t, 13, nested)
}

func TestWidth_02(t *testing.T) {
	var (
		a = signal("a", 3, 0)
		c = signal("c", 7, 0)
		i = &ast.Signal{Name: "i", Kind: ast.INTEGER}
	)
	//
	checkWidth(t, 8, binary(ast.ADD, ref(a), ref(c)))
	checkWidth(t, 8, binary(ast.MUL, ref(a), ref(c)))
	checkWidth(t, 1, binary(ast.LT, ref(a), ref(c)))
	checkWidth(t, 1, binary(ast.LAND, ref(a), ref(c)))
	checkWidth(t, 4, binary(ast.LSHIFT, ref(a), ref(c)))
	checkWidth(t, 32, ref(i))
	checkWidth(t, 4, unary(ast.UINV, ref(a)))
	checkWidth(t, 1, unary(ast.UAND, ref(a)))
	// {3{a}}
	checkWidth(t, 12, &ast.Expr{Op: ast.EXPAND, Left: static("3"), Right: concat(ref(a))})
	// x ? a : c
	cond := &ast.Expr{Op: ast.COND, Left: ref(signal("x")), Right: binary(ast.COLON, ref(a), ref(c))}
	checkWidth(t, 8, cond)
	// Sized and unsized constants
	checkWidth(t, 4, static("4'b1010"))
	checkWidth(t, 32, static("10"))
}

func TestWidth_03(t *testing.T) {
	var (
		c = signal("c", 7, 0)
		m = memory("m", []int{7, 0}, []int{0, 3})
	)
	// c[2:1]
	checkWidth(t, 2, sel(ast.MBIT, c, 0, static("2"), static("1")))
	// c[i+:3]
	checkWidth(t, 3, sel(ast.MBIT_POS, c, 0, ref(signal("i")), static("3")))
	// m[1]
	checkWidth(t, 8, sel(ast.SBIT, m, 0, static("1"), nil))
	// m[1][3]
	checkWidth(t, 1, dim(sel(ast.SBIT, m, 0, static("1"), nil), sel(ast.SBIT, m, 1, static("3"), nil)))
	// Function calls need their width
	call := &ast.Expr{Op: ast.FUNCCALL, Name: "f"}
	_, ok := WidthOf(call, NewPrinter(unit()))
	assert.False(t, ok)
	call.Width = 6
	checkWidth(t, 6, call)
	checkWidth(t, 32, &ast.Expr{Op: ast.SYSCALL, Name: "$random"})
}

func TestWidth_04(t *testing.T) {
	p := &ast.Signal{Name: "p", Kind: ast.REG, Packed: []ast.Dim{{Msb: ast.ParseBound("W-1"), Lsb: ast.IntBound(0)}}}
	//
	size, ok := WidthOf(ref(p), NewPrinter(unit()))
	assert.True(t, ok)
	assert.False(t, size.IsConst())
	assert.Equal(t, "[(((W-1) > 0 ? (W-1) - 0 : 0 - (W-1)) + 1)-1:0]", size.Range())
	// Constants fold
	assert.Equal(t, "", ConstSize(1).Range())
	assert.Equal(t, "[3:0]", ConstSize(4).Range())
	assert.Equal(t, 12, ConstSize(3).Mul(ConstSize(4)).Value())
	assert.Equal(t, size, size.Mul(ConstSize(1)))
	assert.Equal(t, size, size.Add(ConstSize(0)))
}

func TestWidth_05(t *testing.T) {
	var (
		v = &ast.Signal{Name: "v", Kind: ast.REG, Packed: []ast.Dim{{Msb: ast.IntBound(0), Lsb: ast.ParseBound("N-1")}}}
		p = NewPrinter(unit())
	)
	// v[2:5] is constant whatever the ordering
	checkWidth(t, 4, sel(ast.MBIT, v, 0, static("2"), static("5")))
	// v[a:b] is measured in either direction
	size, ok := WidthOf(sel(ast.MBIT, v, 0, ref(signal("a")), ref(signal("b"))), p)
	assert.True(t, ok)
	assert.Equal(t, "((a) > (b) ? (a) - (b) : (b) - (a)) + 1", size.String())
}

func TestWidth_06(t *testing.T) {
	// Sizes which are already parenthesised are not wrapped again
	assert.Equal(t, "(W)", ExprSize("(W)").operand())
	assert.Equal(t, "((W) + (1))", ExprSize("(W) + (1)").operand())
	assert.Equal(t, "x - (a + b)", ExprSize("x").Sub(ExprSize("a + b")).String())
	assert.Equal(t, "(N < M ? N : M)", MinSize(ExprSize("N"), ExprSize("M")).String())
	assert.Equal(t, 3, MinSize(ConstSize(3), ConstSize(7)).Value())
	assert.Equal(t, 5, SpanSize(ConstSize(3), ConstSize(7)).Value())
	assert.Equal(t, 5, SpanSize(ConstSize(7), ConstSize(3)).Value())
}

func TestMemory_01(t *testing.T) {
	// reg [7:0] m [0:3][0:7] and reg [7:0] m [3:0][7:0]
	for _, m := range []*ast.Signal{
		memory("m", []int{7, 0}, []int{0, 3}, []int{0, 7}),
		memory("m", []int{7, 0}, []int{3, 0}, []int{7, 0}),
	} {
		access := dim(sel(ast.SBIT, m, 0, static("2"), nil), sel(ast.SBIT, m, 1, static("5"), nil))
		//
		assert.True(t, IsMemoryAccess(access))
		index, ok := MemoryIndex(access, NewPrinter(unit()))
		assert.True(t, ok)
		assert.Equal(t, "21", index.String())
		assert.Equal(t, 5, IndexWidth(m).Value())
	}
}

func TestMemory_02(t *testing.T) {
	var (
		i  = signal("i", 1, 0)
		m1 = memory("m", []int{7, 0}, []int{0, 3})
		m2 = memory("m", []int{7, 0}, []int{4, 7})
		m3 = memory("m", []int{7, 0}, []int{0, 3}, []int{0, 7})
		p  = NewPrinter(unit())
	)
	// m[i]
	index, ok := MemoryIndex(sel(ast.SBIT, m1, 0, ref(i), nil), p)
	assert.True(t, ok)
	assert.Equal(t, "i", index.String())
	assert.Equal(t, 2, IndexWidth(m1).Value())
	// Offset by the lower bound
	index, ok = MemoryIndex(sel(ast.SBIT, m2, 0, ref(i), nil), p)
	assert.True(t, ok)
	assert.Equal(t, "i - 4", index.String())
	// Partial selects of a memory are not accesses
	partial := sel(ast.SBIT, m3, 0, ref(i), nil)
	assert.False(t, IsMemoryAccess(partial))
	_, ok = MemoryIndex(partial, p)
	assert.False(t, ok)
	// Nor are selects of a vector
	assert.False(t, IsMemoryAccess(sel(ast.SBIT, i, 0, static("0"), nil)))
}

func TestMemory_03(t *testing.T) {
	var (
		i = signal("i", 3, 0)
		// reg [7:0] m [0:N-1]
		m = &ast.Signal{Name: "m", Kind: ast.REG, Packed: []ast.Dim{rng(7, 0)},
			Unpacked: []ast.Dim{{Msb: ast.IntBound(0), Lsb: ast.ParseBound("N-1")}}}
		p = NewPrinter(unit())
	)
	// The lower bound is chosen during elaboration
	index, ok := MemoryIndex(sel(ast.SBIT, m, 0, ref(i), nil), p)
	assert.True(t, ok)
	assert.Equal(t, "i - (0 < (N-1) ? 0 : (N-1))", index.String())
	assert.Equal(t, "(0 > (N-1) ? 0 - (N-1) : (N-1) - 0) + 1", DimSize(m.Unpacked[0]).String())
	assert.Equal(t, 32, IndexWidth(m).Value())
	// Constant ranges fold as before
	assert.Equal(t, 4, DimSize(rng(0, 3)).Value())
	assert.Equal(t, 0, LowerBound(rng(0, 3)).Value())
	assert.Equal(t, 4, LowerBound(rng(7, 4)).Value())
}

func TestSizing_01(t *testing.T) {
	var (
		a = signal("a", 3, 0)
		b = signal("b", 3, 0)
		q = signal("q", 4, 0)
		p = NewPrinter(unit())
	)
	// q = a + b is evaluated at the width of q
	sum := binary(ast.ADD, ref(a), ref(b))
	sizing := AssignSizing(ref(q), sum, p)
	assert.Equal(t, 5, sizing.Width.Value())
	assert.Equal(t, 5, SizingOf(sum, &sizing, p).Width.Value())
	// As are the operands of bitwise operators
	and := binary(ast.AND, ref(a), sum)
	inner := OperandSizing(and, sum, SizingOf(and, &sizing, p), p)
	assert.Equal(t, 5, SizingOf(sum, inner, p).Width.Value())
	// But not the operands of relations, which are sized against each other
	lt := binary(ast.LT, sum, ref(q))
	assert.Equal(t, 1, SizingOf(lt, &sizing, p).Width.Value())
	assert.Equal(t, 5, OperandSizing(lt, sum, SizingOf(lt, &sizing, p), p).Width.Value())
	// Nor of concatenations or shift amounts
	assert.True(t, OperandSizing(concat(sum), sum, sizing, p) == nil)
	shift := binary(ast.LSHIFT, ref(a), sum)
	assert.True(t, OperandSizing(shift, sum, sizing, p) == nil)
	assert.Equal(t, 5, OperandSizing(shift, shift.Left, sizing, p).Width.Value())
}

func TestSizing_02(t *testing.T) {
	var (
		s = &ast.Signal{Name: "s", Kind: ast.REG, Signed: true, Packed: []ast.Dim{rng(3, 0)}}
		u = signal("u", 7, 0)
		p = NewPrinter(unit())
	)
	// s + s within s + s + u is evaluated as unsigned
	inner := binary(ast.ADD, ref(s), ref(s))
	outer := binary(ast.ADD, inner, ref(u))
	context := SelfSizing(outer, p)
	assert.False(t, context.Signed)
	sizing := SizingOf(inner, OperandSizing(outer, inner, context, p), p)
	assert.False(t, sizing.Signed)
	assert.True(t, IsSigned(inner))
	assert.Equal(t, 8, sizing.Width.Value())
	// Unknown widths propagate
	call := &ast.Expr{Op: ast.FUNCCALL, Name: "f"}
	assert.True(t, AssignSizing(ref(u), call, p).Unknown)
	unknown := Sizing{Unknown: true}
	assert.True(t, SizingOf(inner, &unknown, p).Unknown)
}

func TestSigned_01(t *testing.T) {
	var (
		s = &ast.Signal{Name: "s", Kind: ast.REG, Signed: true, Packed: []ast.Dim{rng(7, 0)}}
		u = signal("u", 7, 0)
		m = &ast.Signal{Name: "m", Kind: ast.REG, Signed: true, Packed: []ast.Dim{rng(7, 0)},
			Unpacked: []ast.Dim{rng(0, 3)}}
	)
	//
	assert.True(t, IsSigned(ref(s)))
	assert.False(t, IsSigned(ref(u)))
	assert.True(t, IsSigned(binary(ast.ADD, ref(s), ref(s))))
	assert.False(t, IsSigned(binary(ast.ADD, ref(s), ref(u))))
	assert.False(t, IsSigned(binary(ast.LT, ref(s), ref(s))))
	// Bit selects are unsigned, but memory elements are not
	assert.False(t, IsSigned(sel(ast.SBIT, s, 0, static("1"), nil)))
	assert.True(t, IsSigned(sel(ast.SBIT, m, 0, static("1"), nil)))
}

// ============================================================================
// Framework
// ============================================================================

func unit() *ast.FuncUnit {
	return &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
}

func rng(msb, lsb int) ast.Dim {
	return ast.Dim{Msb: ast.IntBound(msb), Lsb: ast.IntBound(lsb)}
}

// signal constructs a register with an optional packed range.
func signal(name string, bounds ...int) *ast.Signal {
	sig := &ast.Signal{Name: name, Kind: ast.REG}
	//
	if len(bounds) == 2 {
		sig.Packed = []ast.Dim{rng(bounds[0], bounds[1])}
	}
	//
	return sig
}

func memory(name string, packed []int, unpacked ...[]int) *ast.Signal {
	sig := &ast.Signal{Name: name, Kind: ast.REG, Packed: []ast.Dim{rng(packed[0], packed[1])}}
	//
	for _, u := range unpacked {
		sig.Unpacked = append(sig.Unpacked, rng(u[0], u[1]))
	}
	//
	return sig
}

func ref(sig *ast.Signal) *ast.Expr {
	return &ast.Expr{Op: ast.SIG, Signal: sig}
}

func static(text string) *ast.Expr {
	return &ast.Expr{Op: ast.STATIC, Value: ast.ParseConst(text)}
}

func binary(op ast.Op, left, right *ast.Expr) *ast.Expr {
	return &ast.Expr{Op: op, Left: left, Right: right}
}

func unary(op ast.Op, arg *ast.Expr) *ast.Expr {
	return &ast.Expr{Op: op, Left: arg}
}

func sel(op ast.Op, sig *ast.Signal, d int, left, right *ast.Expr) *ast.Expr {
	return &ast.Expr{Op: op, Signal: sig, Dim: d, Left: left, Right: right}
}

func dim(sels ...*ast.Expr) *ast.Expr {
	if len(sels) == 1 {
		return sels[0]
	}
	//
	return &ast.Expr{Op: ast.DIM, Left: sels[0], Right: dim(sels[1:]...)}
}

// concat constructs a concatenation of one or more expressions.
func concat(args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Op: ast.CONCAT, Left: list(args...)}
}

func list(args ...*ast.Expr) *ast.Expr {
	if len(args) == 1 {
		return args[0]
	}
	//
	return &ast.Expr{Op: ast.LIST, Left: args[0], Right: list(args[1:]...)}
}

func checkWidth(t *testing.T, expected int, e *ast.Expr) {
	t.Helper()
	//
	size, ok := WidthOf(e, NewPrinter(unit()))
	//
	assert.True(t, ok, "width of %s unknown", e)
	assert.True(t, size.IsConst(), "width of %s not constant", e)
	assert.Equal(t, expected, size.Value(), "width of %s", e)
}
