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
package ast

import (
	"fmt"

	"github.com/consensys/go-covered/pkg/util/source"
)

// StmtID identifies a statement within a StmtArena.
type StmtID uint32

// NoStmt signals the absence of a statement (e.g. the end of a block).
const NoStmt StmtID = 0

// Stmt is a node in the (possibly cyclic) control graph of a functional unit.
// Successors are held as identifiers so that loops (which point backwards)
// need no special treatment.
type Stmt struct {
	ID StmtID
	// Expression tree owned by this statement.
	Expr *Expr
	// Statement executed next when the root expression is true (or, for
	// statements without a condition, simply next).
	NextTrue StmtID
	// Statement executed next when the root expression is false.  For
	// statements without a condition this aliases NextTrue.
	NextFalse StmtID
	// Enclosing functional unit.
	Unit *FuncUnit
	// Region of source covered by this statement, including any statements
	// nested within it.
	Extent source.Position
	// Indicates a statement which appears inside the header of a for loop,
	// and hence cannot be wrapped.
	Header bool
}

func (s *Stmt) isParent() {}

func (s *Stmt) String() string {
	return fmt.Sprintf("stmt%d(%s)", s.ID, s.Expr)
}

// StmtArena owns every statement of a design.
type StmtArena struct {
	stmts []*Stmt
}

// NewStmtArena constructs an empty arena.
func NewStmtArena() *StmtArena {
	return &StmtArena{}
}

// Add a statement to this arena, assigning its identifier.
func (p *StmtArena) Add(stmt *Stmt) StmtID {
	p.stmts = append(p.stmts, stmt)
	stmt.ID = StmtID(len(p.stmts))
	//
	return stmt.ID
}

// Get returns the statement with a given identifier, or nil for NoStmt.
func (p *StmtArena) Get(id StmtID) *Stmt {
	if id == NoStmt {
		return nil
	}
	//
	return p.stmts[id-1]
}

// Len returns the number of statements in this arena.
func (p *StmtArena) Len() uint {
	return uint(len(p.stmts))
}
