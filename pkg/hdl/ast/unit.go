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
	"slices"

	"github.com/consensys/go-covered/pkg/util/source"
)

// UnitKind identifies the kind of a functional unit.
type UnitKind uint

const (
	// MODULE is a module declaration.
	MODULE UnitKind = iota
	// TASK is a task declaration.
	TASK
	// FUNCTION is a function declaration.
	FUNCTION
	// NAMED_BLOCK is a begin/fork block with a label.
	NAMED_BLOCK
	// UNNAMED_BLOCK is a begin/fork block without a label.  Such blocks are
	// logically part of their parent.
	UNNAMED_BLOCK
)

var unitKinds = []string{"module", "task", "function", "named_block", "unnamed_block"}

// ParseUnitKind returns the kind with the given name.
func ParseUnitKind(name string) (UnitKind, bool) {
	for i, n := range unitKinds {
		if n == name {
			return UnitKind(i), true
		}
	}
	//
	return 0, false
}

func (k UnitKind) String() string {
	return unitKinds[k]
}

// FSM identifies a state machine by its current and next state expressions.
type FSM struct {
	From *Expr
	To   *Expr
}

// FuncUnit is a functional unit: a module, task, function or (named or
// unnamed) block.  Units form a tree rooted at a module.
type FuncUnit struct {
	Kind     UnitKind
	Name     string
	Filename string
	Parent   *FuncUnit
	Children []*FuncUnit
	// Statements belonging directly to this unit (i.e. not to a child).
	Stmts []StmtID
	// Expressions belonging directly to this unit.
	Exprs   []*Expr
	Signals []*Signal
	FSMs    []*FSM
	// Position of the first keyword (e.g. module).
	Start source.Position
	// Position of the final token of the header (e.g. the semi-colon after a
	// module's port list, or the label of a named block).
	Header source.Position
	// Position of the closing keyword (e.g. endmodule).
	End source.Position
	// Indicates an assertion library module.
	Assertion bool
}

// IsNamed checks whether this unit introduces a scope of its own.
func (u *FuncUnit) IsNamed() bool {
	return u.Kind != UNNAMED_BLOCK
}

// Module returns the module enclosing this unit.
func (u *FuncUnit) Module() *FuncUnit {
	for u.Parent != nil {
		u = u.Parent
	}
	//
	return u
}

// Scope returns the enclosing named unit, which is this unit unless it is an
// unnamed block.
func (u *FuncUnit) Scope() *FuncUnit {
	for !u.IsNamed() && u.Parent != nil {
		u = u.Parent
	}
	//
	return u
}

// Path returns the names of the named units enclosing (and including) this
// unit, outermost first, but excluding the module.
func (u *FuncUnit) Path() []string {
	var path []string
	//
	for ; u.Parent != nil; u = u.Parent {
		if u.IsNamed() {
			path = append(path, u.Name)
		}
	}
	//
	slices.Reverse(path)
	//
	return path
}

// IsAssertion checks whether this unit lies within an assertion module.
func (u *FuncUnit) IsAssertion() bool {
	return u.Module().Assertion
}

// FindSignal looks up a signal by name, searching enclosing units outwards.
func (u *FuncUnit) FindSignal(name string) (*Signal, bool) {
	for ; u != nil; u = u.Parent {
		for _, s := range u.Signals {
			if s.Name == name {
				return s, true
			}
		}
	}
	//
	return nil, false
}

// Unnamed returns this unit together with all unnamed blocks nested within it
// (but not within named children).
func (u *FuncUnit) Unnamed() []*FuncUnit {
	units := []*FuncUnit{u}
	//
	for _, child := range u.Children {
		if !child.IsNamed() {
			units = append(units, child.Unnamed()...)
		}
	}
	//
	return units
}

// Walk visits this unit and all units nested within it, parents first.
func (u *FuncUnit) Walk(visitor func(*FuncUnit)) {
	visitor(u)
	//
	for _, child := range u.Children {
		child.Walk(visitor)
	}
}
