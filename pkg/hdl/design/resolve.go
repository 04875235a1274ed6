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
package design

import (
	"fmt"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/source"
)

// resolver turns the flat, identifier-based dump into a linked design.
// Expression and statement identifiers are global to the dump, whilst signal
// names are resolved through the enclosing units.
type resolver struct {
	design *ast.Design
	units  map[string]*ast.FuncUnit
	exprs  map[int]*ast.Expr
	stmts  map[int]ast.StmtID
}

func newResolver() *resolver {
	return &resolver{
		design: ast.NewDesign(),
		units:  make(map[string]*ast.FuncUnit),
		exprs:  make(map[int]*ast.Expr),
		stmts:  make(map[int]ast.StmtID),
	}
}

func (p *resolver) resolve(dump *jsonDesign) (*ast.Design, error) {
	files := make(map[string]bool)
	//
	for i := range dump.Files {
		p.design.Files = append(p.design.Files, &dump.Files[i])
		files[dump.Files[i].Name] = true
	}
	// Pass 1: declare units, signals, expressions and statements
	for _, u := range dump.Units {
		if !files[u.File] {
			return nil, fmt.Errorf("unit %s: unknown file %q", u.ID, u.File)
		} else if err := p.declareUnit(u); err != nil {
			return nil, err
		}
	}
	// Pass 2: link everything together
	for _, u := range dump.Units {
		if err := p.linkUnit(u); err != nil {
			return nil, err
		}
	}
	//
	return p.design, nil
}

func (p *resolver) declareUnit(u jsonUnit) error {
	kind, _ := ast.ParseUnitKind(u.Kind)
	//
	if _, ok := p.units[u.ID]; ok {
		return fmt.Errorf("unit %s: duplicate identifier", u.ID)
	}
	//
	unit := &ast.FuncUnit{
		Kind:      kind,
		Name:      u.Name,
		Filename:  u.File,
		Start:     point(u.Start),
		Header:    point(u.Header),
		End:       point(u.End),
		Assertion: u.Assertion,
	}
	//
	for _, s := range u.Signals {
		sk, _ := ast.ParseSignalKind(s.Kind)
		unit.Signals = append(unit.Signals, &ast.Signal{
			Name:     s.Name,
			Kind:     sk,
			Signed:   s.Signed,
			Packed:   dims(s.Packed),
			Unpacked: dims(s.Unpacked),
		})
	}
	//
	for _, e := range u.Exprs {
		if _, ok := p.exprs[e.ID]; ok {
			return fmt.Errorf("unit %s: duplicate expression %d", u.ID, e.ID)
		}
		//
		pos, ok := position(e.Pos)
		if !ok {
			return fmt.Errorf("unit %s: expression %d has invalid position %v", u.ID, e.ID, e.Pos)
		}
		//
		expr := &ast.Expr{ID: e.ID, Op: e.Op, Pos: pos, Name: e.Name, Dim: e.Dim, Width: e.Width}
		//
		if e.Owned {
			expr.Set(ast.OwnedElsewhere)
		}
		//
		if e.Op == ast.STATIC || e.Value != "" {
			expr.Value = ast.ParseConst(e.Value)
		}
		//
		p.exprs[e.ID] = expr
		unit.Exprs = append(unit.Exprs, expr)
	}
	//
	for _, s := range u.Stmts {
		if _, ok := p.stmts[s.ID]; ok {
			return fmt.Errorf("unit %s: duplicate statement %d", u.ID, s.ID)
		}
		//
		extent, ok := position(s.Extent)
		if !ok {
			return fmt.Errorf("unit %s: statement %d has invalid extent %v", u.ID, s.ID, s.Extent)
		}
		//
		stmt := &ast.Stmt{Unit: unit, Extent: extent, Header: s.Header}
		id := p.design.Arena.Add(stmt)
		p.stmts[s.ID] = id
		unit.Stmts = append(unit.Stmts, id)
	}
	//
	p.units[u.ID] = unit
	//
	return nil
}

func (p *resolver) linkUnit(u jsonUnit) error {
	unit := p.units[u.ID]
	// Parent
	if u.Parent == "" {
		if unit.Kind != ast.MODULE {
			return fmt.Errorf("unit %s: %s has no parent", u.ID, unit.Kind)
		}
		//
		p.design.Modules = append(p.design.Modules, unit)
	} else if parent, ok := p.units[u.Parent]; !ok {
		return fmt.Errorf("unit %s: unknown parent %q", u.ID, u.Parent)
	} else {
		unit.Parent = parent
		parent.Children = append(parent.Children, unit)
	}
	// Expressions
	for _, e := range u.Exprs {
		if err := p.linkExpr(unit, e); err != nil {
			return fmt.Errorf("unit %s: %w", u.ID, err)
		}
	}
	// Statements
	for _, s := range u.Stmts {
		if err := p.linkStmt(s); err != nil {
			return fmt.Errorf("unit %s: %w", u.ID, err)
		}
	}
	// State machines
	for _, f := range u.FSMs {
		from, ok1 := p.exprs[f.From]
		to, ok2 := p.exprs[f.To]
		//
		if !ok1 || !ok2 {
			return fmt.Errorf("unit %s: unknown fsm state expression", u.ID)
		}
		//
		unit.FSMs = append(unit.FSMs, &ast.FSM{From: from, To: to})
	}
	//
	return nil
}

func (p *resolver) linkExpr(unit *ast.FuncUnit, e jsonExpr) error {
	var (
		expr = p.exprs[e.ID]
		err  error
	)
	//
	if expr.Left, err = p.child(expr, e.Left); err != nil {
		return err
	} else if expr.Right, err = p.child(expr, e.Right); err != nil {
		return err
	}
	//
	if e.Signal != "" {
		// Signals are resolved lazily, since signals of enclosing units are
		// declared in the first pass.
		sig, ok := unit.FindSignal(e.Signal)
		if !ok {
			return fmt.Errorf("expression %d: unknown signal %q", e.ID, e.Signal)
		}
		//
		expr.Signal = sig
	} else if e.Op == ast.SIG || (e.Op.Category() == ast.SELECT && e.Op != ast.DIM) {
		return fmt.Errorf("expression %d: %s requires a signal", e.ID, e.Op)
	}
	//
	return nil
}

// child links a given child to its parent.  A child can be shared between
// trees only when it is marked as owned elsewhere, in which case the first
// tree to refer to it is its parent.
func (p *resolver) child(parent *ast.Expr, id int) (*ast.Expr, error) {
	if id == 0 {
		return nil, nil
	}
	//
	child, ok := p.exprs[id]
	//
	if !ok {
		return nil, fmt.Errorf("expression %d: unknown child %d", parent.ID, id)
	} else if child.Parent == nil {
		child.Parent = parent
	} else if !child.Has(ast.OwnedElsewhere) {
		return nil, fmt.Errorf("expression %d: child %d already has a parent", parent.ID, id)
	}
	//
	return child, nil
}

func (p *resolver) linkStmt(s jsonStmt) error {
	var (
		stmt     = p.design.Stmt(p.stmts[s.ID])
		expr, ok = p.exprs[s.Expr]
	)
	//
	if !ok {
		return fmt.Errorf("statement %d: unknown expression %d", s.ID, s.Expr)
	} else if expr.Parent != nil {
		return fmt.Errorf("statement %d: expression %d is not a root", s.ID, s.Expr)
	}
	//
	expr.Parent = stmt
	stmt.Expr = expr
	//
	if stmt.NextTrue, ok = p.next(s.True); !ok {
		return fmt.Errorf("statement %d: unknown successor %d", s.ID, s.True)
	} else if stmt.NextFalse, ok = p.next(s.False); !ok {
		return fmt.Errorf("statement %d: unknown successor %d", s.ID, s.False)
	}
	//
	return nil
}

func (p *resolver) next(id int) (ast.StmtID, bool) {
	if id == 0 {
		return ast.NoStmt, true
	}
	//
	sid, ok := p.stmts[id]
	//
	return sid, ok
}

func point(p []int) source.Position {
	return source.At(p[0], p[1])
}

func position(p []int) (source.Position, bool) {
	if source.ComparePoints(p[0], p[1], p[2], p[3]) > 0 {
		return source.Position{}, false
	}
	//
	return source.NewPosition(p[0], p[1], p[2], p[3]), true
}

func dims(ds []jsonDim) []ast.Dim {
	var result []ast.Dim
	//
	for _, d := range ds {
		result = append(result, ast.Dim{Msb: ast.ParseBound(d.Msb), Lsb: ast.ParseBound(d.Lsb)})
	}
	//
	return result
}
