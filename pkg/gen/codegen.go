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

	"github.com/consensys/go-covered/pkg/hdl/ast"
)

// Printer renders expressions as Verilog source.  Hoisted expressions are
// rendered as references to their temporaries, whose names depend upon the
// unit in which the expression occurs.
type Printer struct {
	unit *ast.FuncUnit
}

// NewPrinter constructs a printer for expressions within a given unit.
func NewPrinter(unit *ast.FuncUnit) *Printer {
	return &Printer{unit}
}

// Print renders a given expression.
func (p *Printer) Print(e *ast.Expr) string {
	var builder strings.Builder
	//
	p.print(&builder, e)
	//
	return builder.String()
}

func (p *Printer) print(out *strings.Builder, e *ast.Expr) {
	if e.Has(ast.Hoisted) {
		out.WriteString(NameFor(TEMP, e, p.unit))
		return
	}
	//
	switch e.Op.Category() {
	case ast.LEAF:
		p.printLeaf(out, e)
	case ast.SELECT:
		p.printSelect(out, e)
	case ast.BINARY:
		p.printOperand(out, e.Left)
		out.WriteString(" " + e.Op.Symbol() + " ")
		p.printOperand(out, e.Right)
	case ast.UNARY:
		out.WriteString(e.Op.Symbol())
		p.printOperand(out, e.Left)
	case ast.EVENT:
		p.printEvent(out, e)
	default:
		p.printOther(out, e)
	}
}

func (p *Printer) printLeaf(out *strings.Builder, e *ast.Expr) {
	switch {
	case e.Op == ast.STATIC && e.Value != nil:
		out.WriteString(e.Value.Text)
	case e.Signal != nil:
		out.WriteString(e.Signal.Name)
	default:
		out.WriteString(e.Name)
	}
}

// Selects of multi-dimensional signals are chained by DIM nodes, where only
// the outermost select names the signal.
func (p *Printer) printSelect(out *strings.Builder, e *ast.Expr) {
	for i, sel := range selects(e) {
		if i == 0 {
			out.WriteString(sel.Signal.Name)
		}
		//
		out.WriteByte('[')
		p.print(out, sel.Left)
		//
		if sel.Op != ast.SBIT {
			out.WriteString(sel.Op.Symbol())
			p.print(out, sel.Right)
		}
		//
		out.WriteByte(']')
	}
}

func (p *Printer) printEvent(out *strings.Builder, e *ast.Expr) {
	switch e.Op {
	case ast.PEDGE, ast.NEDGE:
		out.WriteString(e.Op.Symbol() + " ")
		p.print(out, e.Left)
	case ast.AEDGE:
		p.print(out, e.Left)
	case ast.EOR:
		p.print(out, e.Left)
		out.WriteString(" or ")
		p.print(out, e.Right)
	}
}

func (p *Printer) printOther(out *strings.Builder, e *ast.Expr) {
	switch e.Op {
	case ast.COND:
		p.printOperand(out, e.Left)
		out.WriteString(" ? ")
		p.printOperand(out, e.Right.Left)
		out.WriteString(" : ")
		p.printOperand(out, e.Right.Right)
	case ast.COLON:
		p.printOperand(out, e.Left)
		out.WriteString(" : ")
		p.printOperand(out, e.Right)
	case ast.CONCAT:
		out.WriteByte('{')
		p.print(out, e.Left)
		out.WriteByte('}')
	case ast.LIST:
		p.print(out, e.Left)
		//
		if e.Right != nil {
			out.WriteString(", ")
			p.print(out, e.Right)
		}
	case ast.EXPAND:
		out.WriteByte('{')
		p.printOperand(out, e.Left)
		p.print(out, e.Right)
		out.WriteByte('}')
	case ast.FUNCCALL, ast.SYSCALL:
		out.WriteString(e.Name)
		//
		if e.Left != nil {
			out.WriteByte('(')
			p.print(out, e.Left)
			out.WriteByte(')')
		}
	}
}

// Operands which are themselves compound are bracketed, so that the original
// precedence is retained.
func (p *Printer) printOperand(out *strings.Builder, e *ast.Expr) {
	if e.Has(ast.Hoisted) || isAtomic(e) {
		p.print(out, e)
		return
	}
	//
	out.WriteByte('(')
	p.print(out, e)
	out.WriteByte(')')
}

func isAtomic(e *ast.Expr) bool {
	switch e.Op.Category() {
	case ast.LEAF, ast.SELECT:
		return true
	}
	//
	switch e.Op {
	case ast.CONCAT, ast.EXPAND, ast.FUNCCALL, ast.SYSCALL:
		return true
	}
	//
	return false
}

// selects flattens a chain of selects into the individual selects, outermost
// first.
func selects(e *ast.Expr) []*ast.Expr {
	var sels []*ast.Expr
	//
	for e.Op == ast.DIM {
		sels = append(sels, e.Left)
		e = e.Right
	}
	//
	return append(sels, e)
}
