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
	"slices"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	log "github.com/sirupsen/logrus"
)

// coverStmt generates the coverage code for a given statement, which should
// execute whenever the statement does.
func (c *Context) coverStmt(s *ast.Stmt) []string {
	var (
		cl   = newClassifier(c, s)
		root = s.Expr
	)
	// Assertion modules report their own coverage points, and are otherwise
	// left alone.
	if c.options.IsAssertion(s.Unit) {
		if root.Op == ast.TASKCALL && root.Name == c.options.CoverTask && c.options.Line {
			cl.line(root)
		}
		//
		return cl.code
	}
	//
	// Statements which control another leave the line flag to it.
	if c.options.Line && root.Op != ast.ASSIGN && !isForwarding(root.Op) {
		cl.line(root)
	}
	//
	switch {
	case root.Op.IsAssignment():
		cl.assignment(root)
	case root.Op == ast.IF || root.Op == ast.REPEAT:
		cl.visit(root.Left, 0, false, nil)
	case root.Op == ast.TASKCALL && root.Left != nil:
		cl.visit(root.Left, 0, false, nil)
	case root.Op.Category() == ast.EVENT && c.options.Event:
		cl.events(root)
	}
	//
	return cl.code
}

// line records that a statement was executed.
func (c *classifier) line(root *ast.Expr) {
	c.assign(c.signal(LINE, root, ConstSize(1), false), "1'b1")
}

// assignment covers the value assigned, followed by the target.  The value of
// a non-blocking assignment is not available until the end of the time step,
// hence any coverage on it requires the value to be captured now.
func (c *classifier) assignment(root *ast.Expr) {
	var (
		lhs, rhs = root.Left, root.Right
		before   = len(c.code)
		write    = c.ctx.options.Memory && IsMemoryAccess(lhs)
		sizing   = AssignSizing(lhs, rhs, c.printer)
	)
	//
	printable, _ := c.visit(rhs, 0, write, &sizing)
	//
	if root.Op == ast.NASSIGN && printable && isHoistable(rhs) && !rhs.Has(ast.Hoisted) &&
		(write || len(c.code) > before) {
		printable = c.hoist(rhs, SizingOf(rhs, &sizing, c.printer))
	}
	//
	if !printable {
		rhs = nil
	}
	//
	c.visitTarget(lhs, rhs)
}

// events covers each edge of an event control.  An edge within a list of
// several cannot simply be assumed to have fired when the control resumes, so
// it is compared against a shadow copy of its operand which is maintained
// independently.  The shadow is maintained at module level, hence edges whose
// operand cannot be sampled there are only covered when they stand alone.
func (c *classifier) events(root *ast.Expr) {
	var (
		edges  = flattenEvents(root)
		module = c.unit.Module()
	)
	//
	for _, edge := range edges {
		text, size, ok := c.sampled(edge)
		//
		if !ok && len(edges) > 1 {
			continue
		}
		//
		var shadow string
		//
		if ok {
			shadow = c.ctx.declare(SHADOW, edge, c.unit, "reg", size, false, true)
			c.ctx.addTail(module, fmt.Sprintf("always @(%s) %s <= %s;", text, shadow, text))
		}
		//
		fired := c.signal(EVENT, edge, ConstSize(1), false)
		//
		switch {
		case len(edges) == 1:
			c.assign(fired, "1'b1")
		case edge.Op == ast.PEDGE:
			c.assign(fired, fmt.Sprintf("(%s !== 1'b1) && (%s === 1'b1)", shadow, text))
		case edge.Op == ast.NEDGE:
			c.assign(fired, fmt.Sprintf("(%s !== 1'b0) && (%s === 1'b0)", shadow, text))
		default:
			c.assign(fired, fmt.Sprintf("(%s !== %s)", shadow, text))
		}
	}
}

// sampled determines the text and width of the value an edge is detected on,
// as seen from module level.  Edges of a vector are detected on its least
// significant bit.
func (c *classifier) sampled(edge *ast.Expr) (string, Size, bool) {
	var (
		operand = edge.Left
		module  = c.unit.Module()
	)
	//
	if operand == nil || !isPure(operand) {
		log.Debugf("%s: cannot cover event %s", c.unit.Filename, edge)
		return "", Size{}, false
	} else if !isVisible(operand, module) {
		log.Debugf("%s: operand of %s not visible in module %s", c.unit.Filename, edge, module.Name)
		return "", Size{}, false
	}
	//
	size, ok := WidthOf(operand, c.printer)
	text := c.printer.Print(operand)
	//
	switch {
	case !ok:
		log.Debugf("%s: width of %s unknown", c.unit.Filename, operand)
		return "", Size{}, false
	case edge.Op == ast.AEDGE || (size.IsConst() && size.Value() == 1):
		return text, size, true
	case operand.Op == ast.SIG && operand.Signal != nil && len(operand.Signal.Packed) == 1 &&
		!operand.Signal.IsMemory():
		return fmt.Sprintf("%s[%s]", text, operand.Signal.Packed[0].Lsb), ConstSize(1), true
	}
	//
	log.Debugf("%s: cannot sample edge of %s", c.unit.Filename, operand)
	//
	return "", Size{}, false
}

// coverFSMs records the state transitions of each state machine in a module
// using a net which concatenates the current and next states.
func (c *Context) coverFSMs(module *ast.FuncUnit) {
	printer := NewPrinter(module)
	//
	for _, fsm := range module.FSMs {
		from, ok1 := WidthOf(fsm.From, printer)
		to, ok2 := WidthOf(fsm.To, printer)
		//
		if !ok1 || !ok2 {
			log.Debugf("%s: width of state machine %s unknown", module.Filename, fsm.From)
			continue
		}
		//
		name := c.declare(FSM, fsm.From, module, "wire", from.Add(to), false, true)
		c.addTail(module, fmt.Sprintf("assign %s = {%s, %s};", name, printer.Print(fsm.From), printer.Print(fsm.To)))
	}
}

// flattenEvents returns the edges of an event list, in source order.
func flattenEvents(e *ast.Expr) []*ast.Expr {
	if e.Op != ast.EOR {
		return []*ast.Expr{e}
	}
	//
	return append(flattenEvents(e.Left), flattenEvents(e.Right)...)
}

// isVisible checks that every signal referenced by an expression is declared
// by a given module, rather than by a task, function or named block within
// it.
func isVisible(e *ast.Expr, module *ast.FuncUnit) bool {
	return e.Walk(func(e *ast.Expr) bool {
		return e.Signal == nil || slices.Contains(module.Signals, e.Signal)
	})
}

// isPure checks that an expression can be evaluated any number of times.
func isPure(e *ast.Expr) bool {
	return e.Walk(func(e *ast.Expr) bool {
		return !e.HasSideEffects()
	})
}
