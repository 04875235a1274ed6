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

	"github.com/consensys/go-covered/pkg/hdl/ast"
	log "github.com/sirupsen/logrus"
)

// classifier determines the coverage for a single statement.  Expression
// trees are visited bottom up, such that the code for operands is generated
// before the code for the operators which use them.  Code is accumulated in
// execution order.
type classifier struct {
	ctx     *Context
	unit    *ast.FuncUnit
	printer *Printer
	// Depth at (or below) which operands of covered expressions are hoisted
	depth int
	// Indicates a continuous assignment, for which signals are nets driven
	// by continuous assignments of their own.
	continuous bool
	code       []string
}

func newClassifier(ctx *Context, stmt *ast.Stmt) *classifier {
	return &classifier{
		ctx:        ctx,
		unit:       stmt.Unit,
		printer:    NewPrinter(stmt.Unit),
		depth:      ctx.options.InlineDepthFor(stmt.Unit),
		continuous: stmt.Expr.Op == ast.ASSIGN,
	}
}

// visit classifies a given node at a given depth, where depth increases only
// when the operator changes.  Since chains of the same operator are
// evaluated as one, they count as a single level.  The needed flag indicates
// the node's value will be printed in some generated code, and the context
// determines the sizing of a node whose width depends on where it is used.
// This returns whether the node can be printed at all (i.e. without
// evaluating side effects twice), and whether it was hoisted because it has
// side effects.
func (c *classifier) visit(e *ast.Expr, depth int, needed bool, context *Sizing) (printable bool, side bool) {
	switch {
	case e == nil || e.IsLeaf():
		return true, false
	case e.Op.Category() == ast.SELECT:
		return c.visitSelect(e, depth, needed), false
	case e.Op.Category() == ast.EVENT || e.Op.Category() == ast.STATEMENT:
		return false, false
	}
	//
	var (
		kind     = c.coverageOf(e)
		sizing   = SizingOf(e, context, c.printer)
		infected bool
	)
	//
	printable = true
	//
	for _, child := range e.Children() {
		d := depth
		//
		if child.Op != e.Op {
			d++
		}
		//
		p, s := c.visit(child, d, needed || kind != 0, OperandSizing(e, child, sizing, c.printer))
		printable = printable && p
		infected = infected || s
	}
	//
	if kind != 0 && printable {
		c.cover(kind, e)
	} else if kind != 0 {
		log.Debugf("%s: cannot cover %s", c.unit.Filename, e)
	}
	// A child hoisted for its side effects forces its parent to be hoisted
	// as well, but this goes no further.
	side = e.HasSideEffects()
	//
	if needed && isHoistable(e) && !e.IsStatic() && (side || infected || depth >= c.depth) {
		if printable && c.hoist(e, sizing) {
			return true, side
		}
		//
		return false, false
	}
	//
	return printable && !side, false
}

// visitSelect classifies the index expressions of a select, and the memory
// read it performs (if applicable).
func (c *classifier) visitSelect(e *ast.Expr, depth int, needed bool) bool {
	var (
		memory    = c.ctx.options.Memory && IsMemoryAccess(e)
		printable = true
	)
	//
	for _, sel := range selects(e) {
		for _, index := range sel.Children() {
			p, _ := c.visit(index, depth+1, needed || memory, nil)
			printable = printable && p
		}
	}
	//
	if memory && printable {
		c.memoryRead(e)
	}
	//
	return printable
}

// visitTarget classifies the target of an assignment.  Targets are never
// hoisted, but index expressions within them are covered, and a target which
// is an element of a memory records the write.
func (c *classifier) visitTarget(lhs *ast.Expr, rhs *ast.Expr) {
	switch {
	case lhs.Op == ast.CONCAT || lhs.Op == ast.LIST:
		for _, child := range lhs.Children() {
			c.visitTarget(child, nil)
		}
	case lhs.Op.Category() == ast.SELECT:
		var (
			memory    = c.ctx.options.Memory && rhs != nil && IsMemoryAccess(lhs)
			printable = true
		)
		//
		for _, sel := range selects(lhs) {
			for _, index := range sel.Children() {
				p, _ := c.visit(index, 1, memory, nil)
				printable = printable && p
			}
		}
		//
		if memory && printable {
			c.memoryWrite(lhs, rhs)
		}
	}
}

// coverageOf determines the kind of combinational coverage for a node, or
// zero if it has none.  Nodes whose value is fixed can only ever exercise
// one combination and are, hence, not covered.
func (c *classifier) coverageOf(e *ast.Expr) Kind {
	if !c.ctx.options.Combinational {
		return 0
	}
	//
	switch {
	case e.Op.Category() == ast.BINARY && !e.IsStatic():
		return COMB
	case e.Op.Category() == ast.UNARY && !e.IsStatic():
		return UNARY
	case e.Op == ast.COND && !e.Left.IsStatic():
		return UNARY
	}
	//
	return 0
}

// cover generates the combinational coverage for a node.  Binary operators
// record whether each operand is non-zero, whilst unary operators (and
// conditionals) record this for their only operand (or condition).
func (c *classifier) cover(kind Kind, e *ast.Expr) {
	var value string
	//
	if kind == COMB {
		value = fmt.Sprintf("{%s, %s}", c.test(e.Left), c.test(e.Right))
		c.assign(c.signal(kind, e, ConstSize(2), false), value)
	} else {
		value = c.test(e.Left)
		c.assign(c.signal(kind, e, ConstSize(1), false), value)
	}
}

// test determines whether an operand is non-zero, taking account of sign.
func (c *classifier) test(e *ast.Expr) string {
	var text = c.printer.Print(e)
	//
	if !e.Has(ast.Hoisted) && !isAtomic(e) {
		text = "(" + text + ")"
	}
	//
	if IsSigned(e) {
		return text + " != 0"
	}
	//
	return text + " > 0"
}

// hoist captures the value of a node in a temporary, after which the node is
// printed as a reference to it.  The temporary has the sizing at which the
// node is evaluated where it occurs, such that the value is unchanged.
func (c *classifier) hoist(e *ast.Expr, sizing Sizing) bool {
	switch {
	case sizing.Unknown:
		log.Debugf("%s: width of %s unknown", c.unit.Filename, e)
		return false
	case sizing.Signed != IsSigned(e):
		// operands would be sign extended on their own, but are not in place
		log.Debugf("%s: cannot hoist signed %s from unsigned context", c.unit.Filename, e)
		return false
	}
	//
	value := c.printer.Print(e)
	c.assign(c.signal(TEMP, e, sizing.Width, sizing.Signed), value)
	e.Set(ast.Hoisted)
	//
	return true
}

func (c *classifier) memoryRead(e *ast.Expr) {
	index, ok := MemoryIndex(e, c.printer)
	//
	if !ok {
		log.Debugf("%s: index of %s unknown", c.unit.Filename, e)
		return
	}
	//
	sig := selects(e)[0].Signal
	c.assign(c.signal(MEM_READ, e, IndexWidth(sig), false), index.String())
}

// memoryWrite records both the value written and the address it was written
// to, with the value occupying the upper bits.
func (c *classifier) memoryWrite(lhs *ast.Expr, rhs *ast.Expr) {
	var (
		sig        = selects(lhs)[0].Signal
		indexWidth = IndexWidth(sig)
		index, ok1 = MemoryIndex(lhs, c.printer)
		width, ok2 = WidthOf(lhs, c.printer)
	)
	//
	if !ok1 || !ok2 {
		log.Debugf("%s: cannot cover write to %s", c.unit.Filename, lhs)
		return
	}
	//
	value := fmt.Sprintf("((%s) << %s) | (%s)", c.printer.Print(rhs), indexWidth, index)
	c.assign(c.signal(MEM_WRITE, lhs, width.Add(indexWidth), false), value)
}

// assign generates an assignment to a synthesized signal.
func (c *classifier) assign(name string, value string) {
	if c.continuous {
		c.code = append(c.code, fmt.Sprintf("assign %s = %s;", name, value))
	} else {
		c.code = append(c.code, fmt.Sprintf("%s = %s;", name, value))
	}
}

// signal declares a synthesized signal for a given node, returning its name.
func (c *classifier) signal(kind Kind, e *ast.Expr, size Size, signed bool) string {
	if c.continuous {
		return c.ctx.declare(kind, e, c.unit, "wire", size, signed, true)
	}
	//
	return c.ctx.declare(kind, e, c.unit, "reg", size, signed, false)
}

// Only expressions which stand alone can be hoisted.  Selects are never
// hoisted since they are already as simple as a reference to a temporary.
func isHoistable(e *ast.Expr) bool {
	switch e.Op.Category() {
	case ast.LEAF, ast.SELECT, ast.EVENT, ast.STATEMENT:
		return false
	}
	//
	return e.Op != ast.LIST && e.Op != ast.COLON
}

// hoisted returns the outermost hoisted nodes of a tree in source order.
// These are the nodes whose text is replaced by references to their
// temporaries.
func hoisted(root *ast.Expr) []*ast.Expr {
	var nodes []*ast.Expr
	//
	var walk func(*ast.Expr)
	//
	walk = func(e *ast.Expr) {
		if e == nil {
			return
		} else if e.Has(ast.Hoisted) {
			nodes = append(nodes, e)
			return
		}
		//
		walk(e.Left)
		walk(e.Right)
	}
	//
	walk(root)
	//
	return nodes
}
