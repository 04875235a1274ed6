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
	"github.com/consensys/go-covered/pkg/util/collection/stack"
)

// scopeMarker records where declarations for a given scope are inserted.
type scopeMarker struct {
	unit *ast.FuncUnit
	// Index of the committed line before which the next declaration goes.
	index int
	// Names declared so far in this scope
	declared map[string]bool
}

// DeclStack tracks the insertion point for declarations of each enclosing
// scope.  Declarations always land at the top of their scope (i.e. directly
// after its header), in the order they were inserted, regardless of how much
// has been emitted since the scope was entered.
type DeclStack struct {
	buffer  *Buffer
	markers *stack.Stack[*scopeMarker]
}

// NewDeclStack constructs an empty declaration stack for a given buffer.
func NewDeclStack(buffer *Buffer) *DeclStack {
	return &DeclStack{buffer, stack.NewStack[*scopeMarker]()}
}

// Push enters a new scope, whose declarations will follow everything emitted
// so far.
func (p *DeclStack) Push(unit *ast.FuncUnit) {
	p.buffer.Commit()
	p.markers.Push(&scopeMarker{unit, p.buffer.HoldLen(), make(map[string]bool)})
}

// Pop exits the given scope.  This must be the innermost scope, otherwise the
// scopes have become unsynchronised with the design and this panics.
func (p *DeclStack) Pop(unit *ast.FuncUnit) {
	if p.markers.IsEmpty() {
		panic("pop from empty declaration stack")
	} else if top := p.markers.Peek(0); top.unit != unit {
		panic(fmt.Sprintf("scope %s popped whilst in scope %s", unit.Name, top.unit.Name))
	}
	//
	p.markers.Pop()
}

// Depth returns the number of scopes entered.
func (p *DeclStack) Depth() uint {
	return p.markers.Len()
}

// Top returns the innermost scope.
func (p *DeclStack) Top() *ast.FuncUnit {
	return p.markers.Peek(0).unit
}

// Insert adds a declaration for a given name to the innermost scope, unless
// that name was already declared there.  This returns true if the
// declaration was inserted.
func (p *DeclStack) Insert(name string, text string) bool {
	return p.insert(p.markers.Peek(0), name, text)
}

// InsertOuter adds a declaration for a given name to the outermost scope
// (i.e. the module), unless that name was already declared there.
func (p *DeclStack) InsertOuter(name string, text string) bool {
	return p.insert(p.markers.Bottom(), name, text)
}

func (p *DeclStack) insert(marker *scopeMarker, name string, text string) bool {
	var above bool
	//
	if marker.declared[name] {
		return false
	}
	//
	p.buffer.InsertHold(marker.index, text)
	marker.declared[name] = true
	// Insertion points of this and all enclosed scopes move down by one
	for m := range p.markers.BottomUp() {
		if m == marker {
			above = true
		}
		//
		if above {
			m.index++
		}
	}
	//
	return true
}
