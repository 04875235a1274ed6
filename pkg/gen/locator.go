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
	"slices"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/source"
)

// stmtCursor iterates the statements of one unit in source order.
type stmtCursor struct {
	stmts []*ast.Stmt
	index int
}

func (p *stmtCursor) peek() *ast.Stmt {
	if p.index < len(p.stmts) {
		return p.stmts[p.index]
	}
	//
	return nil
}

// Locator maps positions in a named unit back to the statements rooted at
// them.  Since the statements of unnamed blocks are held by those blocks,
// the locator maintains one cursor for the unit itself and one for each
// unnamed block within it.  Lookups must be made in source order, since the
// cursors only ever move forwards.
type Locator struct {
	cursors []*stmtCursor
}

// NewLocator constructs a locator for the statements of a given unit.
func NewLocator(unit *ast.FuncUnit, arena *ast.StmtArena) *Locator {
	var cursors []*stmtCursor
	//
	for _, u := range unit.Unnamed() {
		stmts := make([]*ast.Stmt, 0, len(u.Stmts))
		//
		for _, id := range u.Stmts {
			stmts = append(stmts, arena.Get(id))
		}
		//
		slices.SortStableFunc(stmts, compareStmts)
		//
		if len(stmts) > 0 {
			cursors = append(cursors, &stmtCursor{stmts, 0})
		}
	}
	//
	slices.SortStableFunc(cursors, compareCursors)
	//
	return &Locator{cursors}
}

// Find returns the statement whose root expression begins at a given point,
// or nil if there is none.  Statements beginning before this point are
// passed over and can no longer be found.
func (p *Locator) Find(line int, col int) *ast.Stmt {
	for len(p.cursors) > 0 {
		c := p.cursors[0]
		next := c.peek()
		//
		if next == nil {
			// exhausted
			p.cursors = p.cursors[1:]
			continue
		}
		//
		cmp := next.Expr.Pos.CompareStart(line, col)
		//
		if cmp > 0 {
			// earliest statement remaining is beyond this point
			return nil
		}
		//
		c.index++
		p.bubble()
		//
		if cmp == 0 {
			return next
		}
	}
	//
	return nil
}

// bubble moves the first cursor into position, assuming the remainder are
// already sorted.
func (p *Locator) bubble() {
	for i := 0; i+1 < len(p.cursors) && compareCursors(p.cursors[i], p.cursors[i+1]) > 0; i++ {
		p.cursors[i], p.cursors[i+1] = p.cursors[i+1], p.cursors[i]
	}
}

func compareStmts(a, b *ast.Stmt) int {
	return source.Compare(a.Expr.Pos, b.Expr.Pos)
}

// Exhausted cursors sort last.
func compareCursors(a, b *stmtCursor) int {
	x, y := a.peek(), b.peek()
	//
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return 1
	case y == nil:
		return -1
	}
	//
	return compareStmts(x, y)
}
