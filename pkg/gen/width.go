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
	"fmt"
	"math/bits"

	"github.com/consensys/go-covered/pkg/hdl/ast"
)

// Size is either a constant or a Verilog expression (e.g. "(W)-(1)+1") which
// evaluates to a constant during elaboration.  Arithmetic over sizes folds
// constants wherever possible, such that a size is only an expression when
// some contributing size is.
type Size struct {
	value int
	expr  string
}

// ConstSize constructs a constant size.
func ConstSize(n int) Size {
	return Size{n, ""}
}

// ExprSize constructs a size from a given expression.
func ExprSize(expr string) Size {
	return Size{0, expr}
}

// IsConst checks whether this size is a constant.
func (s Size) IsConst() bool {
	return s.expr == ""
}

// Value returns the value of a constant size.
func (s Size) Value() int {
	if !s.IsConst() {
		panic("size is not constant")
	}
	//
	return s.value
}

// Add two sizes together.
func (s Size) Add(o Size) Size {
	switch {
	case s.IsConst() && o.IsConst():
		return ConstSize(s.value + o.value)
	case o.IsConst() && o.value == 0:
		return s
	case s.IsConst() && s.value == 0:
		return o
	}
	//
	return ExprSize(fmt.Sprintf("%s + %s", s, o))
}

// Sub subtracts one size from another.
func (s Size) Sub(o Size) Size {
	switch {
	case s.IsConst() && o.IsConst():
		return ConstSize(s.value - o.value)
	case o.IsConst() && o.value == 0:
		return s
	}
	//
	return ExprSize(fmt.Sprintf("%s - %s", s, o.operand()))
}

// Mul multiplies two sizes together.
func (s Size) Mul(o Size) Size {
	switch {
	case s.IsConst() && o.IsConst():
		return ConstSize(s.value * o.value)
	case (s.IsConst() && s.value == 0) || (o.IsConst() && o.value == 0):
		return ConstSize(0)
	case o.IsConst() && o.value == 1:
		return s
	case s.IsConst() && s.value == 1:
		return o
	}
	//
	return ExprSize(fmt.Sprintf("%s * %s", s.operand(), o.operand()))
}

// Max returns the larger of two sizes.
func (s Size) Max(o Size) Size {
	if s.IsConst() && o.IsConst() {
		return ConstSize(max(s.value, o.value))
	} else if s == o {
		return s
	}
	//
	return ExprSize(fmt.Sprintf("((%s) > (%s) ? (%s) : (%s))", s, o, s, o))
}

// Range returns the declaration range for a signal of this size (e.g.
// "[3:0]"), which is empty for single-bit signals.
func (s Size) Range() string {
	switch {
	case s.IsConst() && s.value <= 1:
		return ""
	case s.IsConst():
		return fmt.Sprintf("[%d:0]", s.value-1)
	}
	//
	return fmt.Sprintf("[%s-1:0]", s.operand())
}

func (s Size) operand() string {
	if s.IsConst() || isWrapped(s.expr) {
		return s.String()
	}
	//
	return "(" + s.expr + ")"
}

// isWrapped checks whether an expression is enclosed by a single pair of
// parentheses.
func isWrapped(expr string) bool {
	var depth int
	//
	for i, c := range expr {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			//
			if depth == 0 && i != len(expr)-1 {
				return false
			}
		default:
			if depth == 0 {
				return false
			}
		}
	}
	//
	return len(expr) > 0 && depth == 0
}

func (s Size) String() string {
	if s.IsConst() {
		return fmt.Sprintf("%d", s.value)
	}
	//
	return s.expr
}

// MinSize returns the smaller of two sizes.
func MinSize(a, b Size) Size {
	if a.IsConst() && b.IsConst() {
		return ConstSize(min(a.value, b.value))
	} else if a == b {
		return a
	}
	//
	return ExprSize(fmt.Sprintf("(%s < %s ? %s : %s)", a.operand(), b.operand(), a.operand(), b.operand()))
}

// SpanSize returns the number of elements from one bound to another
// (inclusive), in whichever direction they are ordered.
func SpanSize(a, b Size) Size {
	if a.IsConst() && b.IsConst() {
		return ConstSize(abs(a.value-b.value) + 1)
	}
	//
	return ExprSize(fmt.Sprintf("(%s > %s ? %s - %s : %s - %s) + 1", a.operand(), b.operand(),
		a.operand(), b.operand(), b.operand(), a.operand()))
}

// DimSize returns the number of elements in a declared range.
func DimSize(d ast.Dim) Size {
	return SpanSize(boundSize(d.Msb), boundSize(d.Lsb))
}

// LowerBound returns the smaller end of a declared range.
func LowerBound(d ast.Dim) Size {
	return MinSize(boundSize(d.Msb), boundSize(d.Lsb))
}

func boundSize(b ast.Bound) Size {
	if b.Const {
		return ConstSize(b.Value)
	}
	//
	return ExprSize(b.Text)
}

// SignalWidth returns the number of bits in each element of a given signal.
func SignalWidth(sig *ast.Signal) Size {
	if len(sig.Packed) == 0 {
		switch sig.Kind {
		case ast.INTEGER, ast.PARAMETER, ast.GENVAR:
			return ConstSize(32)
		default:
			return ConstSize(1)
		}
	}
	//
	return product(sig.Packed)
}

// IndexWidth returns the number of bits needed to hold the linear address of
// any element of a given memory.  Memories whose size is not constant use a
// 32-bit index.
func IndexWidth(sig *ast.Signal) Size {
	size := product(sig.Unpacked)
	//
	if !size.IsConst() {
		return ConstSize(32)
	}
	//
	return ConstSize(max(1, bits.Len(uint(size.value-1))))
}

// WidthOf determines the width of a given expression, or fails if this cannot
// be determined (e.g. for calls to functions whose width was not supplied).
// Non-constant sub-expressions needed to describe the width (e.g. the bounds
// of a part select) are rendered with the given printer.
func WidthOf(e *ast.Expr, p *Printer) (Size, bool) {
	switch e.Op.Category() {
	case ast.LEAF:
		return leafWidth(e)
	case ast.SELECT:
		return selectWidth(e, p)
	case ast.EVENT:
		return ConstSize(1), true
	case ast.UNARY:
		if e.Op.IsRelational() {
			return ConstSize(1), true
		}
		// inversion and negation
		return WidthOf(e.Left, p)
	case ast.BINARY:
		return binaryWidth(e, p)
	}
	//
	switch e.Op {
	case ast.COND:
		return WidthOf(e.Right, p)
	case ast.COLON:
		return binaryMax(e, p)
	case ast.CONCAT:
		return WidthOf(e.Left, p)
	case ast.LIST:
		return binarySum(e, p)
	case ast.EXPAND:
		w, ok := WidthOf(e.Right, p)
		//
		if !ok {
			return w, false
		} else if n, ok := constValue(e.Left); ok {
			return ConstSize(n).Mul(w), true
		}
		//
		return ExprSize("(" + p.Print(e.Left) + ")").Mul(w), true
	case ast.FUNCCALL, ast.SYSCALL:
		if e.Width > 0 {
			return ConstSize(e.Width), true
		} else if (e.Name == "$signed" || e.Name == "$unsigned") && e.Left != nil {
			return WidthOf(e.Left, p)
		} else if w, ok := systemWidths[e.Name]; ok {
			return ConstSize(w), true
		}
	}
	// unknown
	return Size{}, false
}

var systemWidths = map[string]int{
	"$random":   32,
	"$urandom":  32,
	"$time":     64,
	"$stime":    32,
	"$realtime": 64,
}

func leafWidth(e *ast.Expr) (Size, bool) {
	switch {
	case e.Signal != nil:
		return SignalWidth(e.Signal), true
	case e.Value != nil && e.Value.Width > 0:
		return ConstSize(e.Value.Width), true
	case e.Value != nil:
		// unsized
		return ConstSize(32), true
	}
	//
	return Size{}, false
}

// The width of a select is the width of one element of the selected dimension
// (multiplied by the number of elements selected) times the size of all
// dimensions nested within it.
func selectWidth(e *ast.Expr, p *Printer) (Size, bool) {
	sels := selects(e)
	sel := sels[len(sels)-1]
	//
	if sels[0].Signal == nil {
		return Size{}, false
	}
	//
	dims := sels[0].Signal.Dims()
	if sel.Dim >= len(dims) {
		return Size{}, false
	}
	//
	inner := product(dims[sel.Dim+1:])
	//
	switch sel.Op {
	case ast.SBIT:
		return inner, true
	case ast.MBIT:
		msb, ok1 := constValue(sel.Left)
		lsb, ok2 := constValue(sel.Right)
		//
		switch d := dims[sel.Dim]; {
		case ok1 && ok2:
			return ConstSize(abs(msb-lsb) + 1).Mul(inner), true
		case !d.IsConst():
			return SpanSize(sizeOf(sel.Left, p), sizeOf(sel.Right, p)).Mul(inner), true
		case d.IsBigEndian():
			return ExprSize(fmt.Sprintf("(%s) - (%s) + 1", p.Print(sel.Right), p.Print(sel.Left))).Mul(inner), true
		}
		//
		return ExprSize(fmt.Sprintf("(%s) - (%s) + 1", p.Print(sel.Left), p.Print(sel.Right))).Mul(inner), true
	default:
		if w, ok := constValue(sel.Right); ok {
			return ConstSize(w).Mul(inner), true
		}
		//
		return ExprSize("(" + p.Print(sel.Right) + ")").Mul(inner), true
	}
}

func binaryWidth(e *ast.Expr, p *Printer) (Size, bool) {
	switch {
	case e.Op.IsRelational():
		return ConstSize(1), true
	case e.Op == ast.LSHIFT || e.Op == ast.RSHIFT || e.Op == ast.ALSHIFT || e.Op == ast.ARSHIFT:
		return WidthOf(e.Left, p)
	}
	//
	return binaryMax(e, p)
}

func binaryMax(e *ast.Expr, p *Printer) (Size, bool) {
	l, ok1 := WidthOf(e.Left, p)
	r, ok2 := WidthOf(e.Right, p)
	//
	return l.Max(r), ok1 && ok2
}

func binarySum(e *ast.Expr, p *Printer) (Size, bool) {
	l, ok := WidthOf(e.Left, p)
	//
	if !ok {
		return l, false
	} else if e.Right == nil {
		return l, true
	}
	//
	r, ok := WidthOf(e.Right, p)
	//
	return l.Add(r), ok
}

// Sizing is the width and signedness at which an expression is evaluated.
// Operands of most arithmetic and bitwise operators are evaluated at the
// width of the expression containing them (e.g. the carry of "a + b" is kept
// when assigned to a wider target), and as unsigned unless every operand of
// that expression is signed.
type Sizing struct {
	Width  Size
	Signed bool
	// Indicates the sizing could not be determined.
	Unknown bool
}

// SelfSizing determines the sizing of an expression evaluated on its own.
func SelfSizing(e *ast.Expr, p *Printer) Sizing {
	width, ok := WidthOf(e, p)
	//
	return Sizing{width, IsSigned(e), !ok}
}

// AssignSizing determines the sizing of the value assigned to a target.
func AssignSizing(lhs *ast.Expr, rhs *ast.Expr, p *Printer) Sizing {
	target, ok := WidthOf(lhs, p)
	sizing := SelfSizing(rhs, p)
	//
	if !ok || sizing.Unknown {
		return Sizing{Unknown: true}
	}
	//
	return Sizing{sizing.Width.Max(target), sizing.Signed, false}
}

// SizingOf determines the sizing of an expression within a context, where a
// nil context means the expression is self-determined.
func SizingOf(e *ast.Expr, context *Sizing, p *Printer) Sizing {
	self := SelfSizing(e, p)
	//
	if context == nil || self.Unknown || !isContextDetermined(e) {
		return self
	} else if context.Unknown {
		return Sizing{Unknown: true}
	}
	//
	return Sizing{self.Width.Max(context.Width), context.Signed, false}
}

// OperandSizing determines the context for a given operand of an expression,
// given the sizing of the expression itself.  This is nil for operands which
// are self-determined (e.g. of a concatenation, or the amount of a shift).
func OperandSizing(e *ast.Expr, operand *ast.Expr, sizing Sizing, p *Printer) *Sizing {
	switch {
	case e.Op == ast.COND:
		if operand == e.Left {
			return nil
		}
		//
		return &sizing
	case e.Op == ast.COLON:
		return &sizing
	case e.Op == ast.LSHIFT || e.Op == ast.RSHIFT || e.Op == ast.ALSHIFT || e.Op == ast.ARSHIFT:
		if operand == e.Left {
			return &sizing
		}
		//
		return nil
	case e.Op == ast.LAND || e.Op == ast.LOR:
		return nil
	case e.Op.Category() == ast.BINARY && e.Op.IsRelational():
		// Operands are sized against each other
		l, r := SelfSizing(e.Left, p), SelfSizing(e.Right, p)
		//
		if l.Unknown || r.Unknown {
			return &Sizing{Unknown: true}
		}
		//
		return &Sizing{l.Width.Max(r.Width), l.Signed && r.Signed, false}
	case isContextDetermined(e):
		return &sizing
	}
	//
	return nil
}

func isContextDetermined(e *ast.Expr) bool {
	switch e.Op.Category() {
	case ast.UNARY:
		return e.Op == ast.UINV || e.Op == ast.NEGATE
	case ast.BINARY:
		return !e.Op.IsRelational()
	}
	//
	return e.Op == ast.COND || e.Op == ast.COLON
}

// IsSigned determines whether a given expression is evaluated as signed.
func IsSigned(e *ast.Expr) bool {
	switch e.Op.Category() {
	case ast.LEAF:
		if e.Signal != nil {
			return e.Signal.Signed || e.Signal.Kind == ast.INTEGER
		}
		//
		return e.Value != nil && e.Value.Signed
	case ast.SELECT:
		// only whole elements of a memory retain their sign
		sels := selects(e)
		sig, last := sels[0].Signal, sels[len(sels)-1]
		//
		return last.Op == ast.SBIT && sig != nil && sig.Signed && last.Dim == len(sig.Unpacked)-1
	case ast.UNARY:
		return (e.Op == ast.UINV || e.Op == ast.NEGATE) && IsSigned(e.Left)
	case ast.BINARY:
		switch {
		case e.Op.IsRelational():
			return false
		case e.Op == ast.LSHIFT || e.Op == ast.RSHIFT || e.Op == ast.ALSHIFT || e.Op == ast.ARSHIFT:
			return IsSigned(e.Left)
		}
		//
		return IsSigned(e.Left) && IsSigned(e.Right)
	}
	//
	switch e.Op {
	case ast.COND:
		return IsSigned(e.Right)
	case ast.COLON:
		return IsSigned(e.Left) && IsSigned(e.Right)
	case ast.SYSCALL:
		return e.Name == "$random" || e.Name == "$signed"
	}
	//
	return false
}

func constValue(e *ast.Expr) (int, bool) {
	if e == nil || e.Op != ast.STATIC || e.Value == nil {
		return 0, false
	}
	//
	v, ok := e.Value.Int()
	//
	return int(v), ok
}

func product(dims []ast.Dim) Size {
	size := ConstSize(1)
	//
	for _, d := range dims {
		size = size.Mul(DimSize(d))
	}
	//
	return size
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	//
	return x
}
