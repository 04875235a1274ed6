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

// File is a source file of a design.  Its contents are either given inline or
// read from Path.
type File struct {
	// Name by which units refer to this file.
	Name string `json:"name"`
	// Location of the file on disk.
	Path string `json:"path,omitempty"`
	// Contents of the file, when supplied inline.
	Source string `json:"source,omitempty"`
}

// Design is a parsed and bound design: its source files, the modules declared
// within them (along with their nested units) and the statements of every unit.
type Design struct {
	Files   []*File
	Modules []*FuncUnit
	Arena   *StmtArena
}

// NewDesign constructs an empty design.
func NewDesign() *Design {
	return &Design{Arena: NewStmtArena()}
}

// ModulesOf returns the modules declared in a given file, in declaration
// order.
func (d *Design) ModulesOf(file string) []*FuncUnit {
	var modules []*FuncUnit
	//
	for _, m := range d.Modules {
		if m.Filename == file {
			modules = append(modules, m)
		}
	}
	//
	return modules
}

// Stmt returns the statement with a given identifier.
func (d *Design) Stmt(id StmtID) *Stmt {
	return d.Arena.Get(id)
}

// ClearTransient resets the transient supplemental bits of every expression
// of the given unit and those nested within it.
func ClearTransient(unit *FuncUnit) {
	unit.Walk(func(u *FuncUnit) {
		for _, e := range u.Exprs {
			e.Clear(Transient)
		}
	})
}
