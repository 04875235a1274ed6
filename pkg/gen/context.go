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
	"strconv"
	"strings"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/hdl/token"
	"github.com/consensys/go-covered/pkg/util/collection/stack"
	"github.com/consensys/go-covered/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Stats counts the signals synthesized of each kind.
type Stats map[Kind]uint

// Total returns the number of signals synthesized overall.
func (p Stats) Total() uint {
	var n uint
	//
	for _, v := range p {
		n += v
	}
	//
	return n
}

type point struct {
	line int
	col  int
}

// closer is text emitted once the token ending at a given point has been
// emitted (e.g. the "end" of a block wrapped around a statement).
type closer struct {
	line int
	col  int
	text string
}

// pendingSubst is a statement whose hoisted expressions are to be replaced
// once its final token has been emitted.
type pendingSubst struct {
	stmt  *ast.Stmt
	nodes []*ast.Expr
}

// Context instruments a single source file by replaying its tokens, whilst
// injecting coverage code as each statement is reached.
type Context struct {
	options *Options
	design  *ast.Design
	file    *source.File
	buffer  *Buffer
	decls   *DeclStack
	// One locator for each named scope entered, which is nil for scopes
	// which are not instrumented.
	locators *stack.Stack[*Locator]
	closers  *stack.Stack[closer]
	// Code waiting to be placed in front of a given statement
	pending map[ast.StmtID][]string
	current *pendingSubst
	// Module-level code emitted before the end of each module
	tails map[*ast.FuncUnit][]string
	// Skip layout up to the next line break
	skipBreak bool
	names     []string
	declared  map[string]bool
	stats     Stats
}

// NewContext constructs a context for instrumenting a given file of a design.
func NewContext(design *ast.Design, file *source.File, options *Options) *Context {
	buffer := NewBuffer()
	//
	return &Context{
		options:  options,
		design:   design,
		file:     file,
		buffer:   buffer,
		decls:    NewDeclStack(buffer),
		locators: stack.NewStack[*Locator](),
		closers:  stack.NewStack[closer](),
		pending:  make(map[ast.StmtID][]string),
		tails:    make(map[*ast.FuncUnit][]string),
		declared: make(map[string]bool),
		stats:    make(Stats),
	}
}

// Run instruments every module declared within this context's file, returning
// the instrumented source.
func (c *Context) Run(modules []*ast.FuncUnit) string {
	var (
		headers = make(map[point][]*ast.FuncUnit)
		ends    = make(map[point][]*ast.FuncUnit)
	)
	//
	for _, module := range modules {
		ast.ClearTransient(module)
		//
		module.Walk(func(u *ast.FuncUnit) {
			if u.IsNamed() {
				pt := point{u.Header.LastLine, u.Header.LastCol}
				headers[pt] = append(headers[pt], u)
				pt = point{u.End.FirstLine, u.End.FirstCol}
				ends[pt] = append(ends[pt], u)
			}
		})
	}
	//
	for _, tok := range token.Tokenize(c.file) {
		if tok.Kind == token.END_OF {
			break
		} else if c.skip(tok) {
			continue
		}
		//
		start := point{tok.Line, tok.Col}
		//
		if !tok.IsLayout() {
			for _, u := range ends[start] {
				if u.Kind == ast.MODULE {
					c.emitTail(u)
				}
			}
			//
			c.locate(tok)
		}
		//
		c.buffer.Emit(tok.Text, tok.Line, tok.Col, true)
		//
		pos := tok.Position()
		c.finish(pos)
		c.close(pos)
		//
		for _, u := range headers[point{pos.LastLine, pos.LastCol}] {
			c.enterScope(u)
		}
		//
		for _, u := range ends[start] {
			c.exitScope(u)
		}
	}
	//
	var out strings.Builder
	// writing to a builder cannot fail
	_ = c.buffer.Flush(&out)
	//
	return out.String()
}

// Names returns the names of all signals synthesized, in the order they were
// declared.
func (c *Context) Names() []string {
	return c.names
}

// Stats returns the number of signals synthesized of each kind.
func (c *Context) Stats() Stats {
	return c.stats
}

// skip drops the layout which follows a scope header on the same line, since
// the header is always followed by a fresh line.
func (c *Context) skip(tok token.Token) bool {
	if !c.skipBreak {
		return false
	} else if tok.Kind == token.WHITESPACE {
		return true
	}
	//
	c.skipBreak = false
	//
	return tok.Kind == token.NEWLINE
}

func (c *Context) enterScope(unit *ast.FuncUnit) {
	c.buffer.Newline()
	c.skipBreak = true
	c.decls.Push(unit)
	//
	if c.options.IsExcluded(unit) {
		log.Debugf("%s: skipping %s", unit.Filename, unit.Name)
		c.locators.Push(nil)
		//
		return
	}
	//
	c.locators.Push(NewLocator(unit, c.design.Arena))
	//
	if unit.Kind == ast.MODULE && c.options.FSM && !c.options.IsAssertion(unit) {
		c.coverFSMs(unit)
	}
}

func (c *Context) exitScope(unit *ast.FuncUnit) {
	c.decls.Pop(unit)
	c.locators.Pop()
}

// locate checks whether a statement begins at a given token, and instruments
// it if so.
func (c *Context) locate(tok token.Token) {
	if c.locators.IsEmpty() {
		return
	} else if locator := c.locators.Peek(0); locator != nil {
		if s := locator.Find(tok.Line, tok.Col); s != nil {
			c.enter(s)
		}
	}
}

// enter emits the coverage code for a statement which is about to be emitted.
func (c *Context) enter(s *ast.Stmt) {
	var root = s.Expr
	//
	if root.Has(ast.Visited) || s.Header {
		return
	}
	//
	root.Set(ast.Visited)
	//
	code := append(c.pending[s.ID], c.coverStmt(s)...)
	delete(c.pending, s.ID)
	//
	switch {
	case isForwarding(root.Op):
		c.forward(s, code)
	case root.Op == ast.ASSIGN:
		c.addTail(s.Unit.Module(), code...)
	case len(code) > 0:
		c.buffer.Emit(fmt.Sprintf("begin %s ", strings.Join(code, " ")), 0, 0, false)
		c.closers.Push(closer{s.Extent.LastLine, s.Extent.LastCol, " end"})
	}
	//
	c.expect(s)
}

// forward passes the code for a statement to the statement it controls,
// since nothing can be placed between them.  When there is no such statement
// (i.e. the control is followed by a null statement) then one is supplied
// instead.
func (c *Context) forward(s *ast.Stmt, code []string) {
	if len(code) == 0 {
		return
	}
	//
	next := c.design.Stmt(s.NextTrue)
	//
	switch {
	case next == nil || next.Expr.Has(ast.Visited) || source.Compare(next.Expr.Pos, s.Expr.Pos) <= 0:
		if s.Expr.Op.IsCaseItem() {
			log.Debugf("%s: no statement for case item %s", s.Unit.Filename, s.Expr)
			return
		}
		//
		text := fmt.Sprintf(" begin %s end", strings.Join(code, " "))
		c.closers.Push(closer{s.Extent.LastLine, s.Extent.LastCol, text})
	case next.Header || c.options.IsExcluded(next.Unit):
		log.Debugf("%s: cannot carry coverage of %s into %s", s.Unit.Filename, s.Expr, next)
	default:
		c.pending[next.ID] = append(c.pending[next.ID], code...)
	}
}

// expect prepares to replace the hoisted expressions of a statement with
// references to their temporaries.
func (c *Context) expect(s *ast.Stmt) {
	nodes := hoisted(s.Expr)
	//
	if len(nodes) == 0 {
		return
	} else if c.current != nil {
		log.Debugf("%s: statement %s never finished", s.Unit.Filename, c.current.stmt)
		c.buffer.MarkReplaceEnd()
	}
	//
	for _, e := range nodes {
		e.Set(ast.PendingSubst)
	}
	//
	c.current = &pendingSubst{s, nodes}
	c.buffer.MarkReplaceStart()
}

// finish performs the replacements for the current statement, if the token
// just emitted was its last.
func (c *Context) finish(pos source.Position) {
	if c.current == nil || !c.current.stmt.Expr.Pos.EndsAt(pos.LastLine, pos.LastCol) {
		return
	}
	//
	unit := c.current.stmt.Unit
	//
	for _, e := range c.current.nodes {
		name := NameFor(TEMP, e, unit)
		//
		if !c.buffer.Replace(name, e.Pos.FirstLine, e.Pos.FirstCol, e.Pos.LastLine, e.Pos.LastCol) {
			log.Debugf("%s: cannot replace %s at %s", unit.Filename, c.quote(e.Pos), e.Pos)
		}
		//
		e.Clear(ast.PendingSubst)
	}
	//
	c.current = nil
	c.buffer.MarkReplaceEnd()
	c.buffer.Commit()
}

// close emits any closers due after the token just emitted, innermost first.
func (c *Context) close(pos source.Position) {
	for !c.closers.IsEmpty() {
		top := c.closers.Peek(0)
		//
		if pos.CompareEnd(top.line, top.col) < 0 {
			return
		}
		//
		c.buffer.Emit(top.text, 0, 0, false)
		c.closers.Pop()
	}
}

// emitTail emits the module-level code of a module just before its end.
func (c *Context) emitTail(module *ast.FuncUnit) {
	lines := c.tails[module]
	//
	if len(lines) == 0 {
		return
	} else if !c.buffer.IsLineBlank() {
		c.buffer.Newline()
	}
	//
	for _, line := range lines {
		c.buffer.Emit(line, 0, 0, false)
		c.buffer.Newline()
	}
	//
	delete(c.tails, module)
}

func (c *Context) addTail(module *ast.FuncUnit, lines ...string) {
	c.tails[module] = append(c.tails[module], lines...)
}

// declare a synthesized signal of a given kind for a given expression, either
// in the innermost scope or (when outer) in the enclosing module.  Each name
// is declared at most once.
func (c *Context) declare(kind Kind, e *ast.Expr, unit *ast.FuncUnit, net string, size Size, signed bool, outer bool) string {
	var (
		name    = NameFor(kind, e, unit)
		builder strings.Builder
	)
	//
	builder.WriteString(net)
	//
	if signed {
		builder.WriteString(" signed")
	}
	//
	if r := size.Range(); r != "" {
		builder.WriteString(" " + r)
	}
	//
	fmt.Fprintf(&builder, " %s;", name)
	//
	var inserted bool
	//
	if outer {
		inserted = c.decls.InsertOuter(name, builder.String())
	} else {
		inserted = c.decls.Insert(name, builder.String())
	}
	//
	if inserted && !c.declared[name] {
		c.declared[name] = true
		c.names = append(c.names, name)
		c.stats[kind]++
	}
	//
	return name
}

// Statements which cannot be wrapped in a block since they control the
// statement which follows them.
func isForwarding(op ast.Op) bool {
	switch op {
	case ast.PEDGE, ast.NEDGE, ast.AEDGE, ast.EOR, ast.DELAY:
		return true
	}
	//
	return op.IsCaseItem()
}

// quote returns the original text at a given position, for diagnostics.
func (c *Context) quote(pos source.Position) string {
	if text, ok := c.file.Text(pos); ok {
		return strconv.Quote(text)
	}
	//
	return "?"
}
