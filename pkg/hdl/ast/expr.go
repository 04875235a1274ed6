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
	"strconv"
	"strings"

	"github.com/consensys/go-covered/pkg/util/source"
)

// Parent is either the parent expression of an expression or, for the root
// of a tree, the statement which owns it.
type Parent interface {
	isParent()
}

// Suppl holds supplemental bits attached to an expression.
type Suppl uint8

const (
	// OwnedElsewhere marks a node which is shared with another tree (e.g. the
	// expression of a case statement, which every case item refers to).
	OwnedElsewhere Suppl = 1 << iota
	// Hoisted marks a node whose value has been captured in a temporary.
	Hoisted
	// PendingSubst marks a hoisted node whose source text has yet to be
	// replaced by a reference to its temporary.
	PendingSubst
	// Visited marks the root of a statement which has been instrumented.
	Visited
)

// Transient covers the bits set during instrumentation, as opposed to those
// supplied with the design.
const Transient = Hoisted | PendingSubst | Visited

// Expr is a node in an expression tree.
type Expr struct {
	// Unique identifier within the design.
	ID int
	// Operation performed by this node
	Op Op
	// Left and right children (either of which may be nil).  Children shared
	// with another tree are marked OwnedElsewhere.
	Left, Right *Expr
	// Enclosing expression or (for the root) statement.
	Parent Parent
	// Region of the original source covered by this node.
	Pos source.Position
	// Signal referenced by this node (for references and selects).
	Signal *Signal
	// Value of a static node.
	Value *Const
	// Name of the called function or task.
	Name string
	// Dimension of the referenced signal being selected.
	Dim int
	// Width of the node as determined by the front end, where known.  This is
	// required for function calls, since their widths are not otherwise
	// available.
	Width int
	// Supplemental bits
	Suppl Suppl
}

func (e *Expr) isParent() {}

// Has checks whether all of the given supplemental bits are set.
func (e *Expr) Has(bits Suppl) bool {
	return e.Suppl&bits == bits
}

// Set the given supplemental bits.
func (e *Expr) Set(bits Suppl) {
	e.Suppl |= bits
}

// Clear the given supplemental bits.
func (e *Expr) Clear(bits Suppl) {
	e.Suppl &^= bits
}

// ParentExpr returns the enclosing expression, or nil if this is the root.
func (e *Expr) ParentExpr() *Expr {
	if p, ok := e.Parent.(*Expr); ok {
		return p
	}
	//
	return nil
}

// Root returns the root of the tree containing this expression.
func (e *Expr) Root() *Expr {
	for p := e.ParentExpr(); p != nil; p = e.ParentExpr() {
		e = p
	}
	//
	return e
}

// Stmt returns the statement owning the tree containing this expression.
func (e *Expr) Stmt() *Stmt {
	s, _ := e.Root().Parent.(*Stmt)
	return s
}

// IsLeaf checks whether this node has no children to visit.
func (e *Expr) IsLeaf() bool {
	return e.Op.Category() == LEAF
}

// Children returns the non-nil children of this node, left first.
func (e *Expr) Children() []*Expr {
	var children []*Expr
	//
	if e.Left != nil {
		children = append(children, e.Left)
	}
	//
	if e.Right != nil {
		children = append(children, e.Right)
	}
	//
	return children
}

// Walk visits every node of this tree in pre-order, stopping early if the
// visitor returns false.
func (e *Expr) Walk(visitor func(*Expr) bool) bool {
	if !visitor(e) {
		return false
	}
	//
	for _, child := range e.Children() {
		if !child.Walk(visitor) {
			return false
		}
	}
	//
	return true
}

// IsStatic checks whether the value of this tree is fixed, meaning it
// consists only of constants and parameters.
func (e *Expr) IsStatic() bool {
	return e.Walk(func(n *Expr) bool {
		switch n.Op {
		case SIG, FUNCCALL, SYSCALL:
			return false
		case SBIT, MBIT, MBIT_POS, MBIT_NEG, DIM:
			return n.Signal == nil || n.Signal.Kind == PARAMETER
		}
		//
		return true
	})
}

// HasSideEffects checks whether evaluating this node more than once could
// produce a different value or change state.
func (e *Expr) HasSideEffects() bool {
	return e.Op == FUNCCALL || e.Op == SYSCALL
}

func (e *Expr) String() string {
	return fmt.Sprintf("%s@%s", e.Op, e.Pos)
}

// Const is the value of a static expression.
type Const struct {
	// Text as written in the source.
	Text string
	// Declared width, or zero for unsized constants.
	Width int
	// Whether this value was declared signed.
	Signed bool
}

// ParseConst extracts the width and signedness of a constant from its
// source text.  For example, "4'sb1010" has width 4 and is signed, whilst
// "10" is unsized and signed.
func ParseConst(text string) *Const {
	var (
		clean = strings.ReplaceAll(text, "_", "")
		tick  = strings.IndexByte(clean, '\'')
	)
	//
	if tick < 0 {
		// plain decimals are signed
		return &Const{text, 0, true}
	}
	//
	width, _ := strconv.Atoi(strings.TrimSpace(clean[:tick]))
	signed := tick+1 < len(clean) && (clean[tick+1] == 's' || clean[tick+1] == 'S')
	//
	return &Const{text, width, signed}
}

// Int returns the integer value of this constant, provided it contains no
// unknown or high-impedance bits.
func (c *Const) Int() (int64, bool) {
	var (
		clean = strings.ToLower(strings.ReplaceAll(c.Text, "_", ""))
		tick  = strings.IndexByte(clean, '\'')
		base  = 10
	)
	//
	if tick >= 0 {
		digits := strings.TrimPrefix(clean[tick+1:], "s")
		//
		if len(digits) == 0 {
			return 0, false
		}
		//
		switch digits[0] {
		case 'b':
			base = 2
		case 'o':
			base = 8
		case 'h':
			base = 16
		}
		//
		clean = strings.TrimSpace(digits[1:])
	}
	//
	val, err := strconv.ParseInt(clean, base, 64)
	//
	return val, err == nil
}
