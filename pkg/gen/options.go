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
	"path"

	"github.com/consensys/go-covered/pkg/hdl/ast"
)

// DEFAULT_INLINE_DEPTH is the depth below which operands of covered
// expressions are hoisted into temporaries, unless configured otherwise.
const DEFAULT_INLINE_DEPTH = 4

// DEFAULT_COVER_TASK is the task through which assertion modules report their
// coverage points.
const DEFAULT_COVER_TASK = "ovl_cover_t"

// Options determines which kinds of coverage are generated, and how.
type Options struct {
	Line          bool
	Combinational bool
	Memory        bool
	Event         bool
	FSM           bool
	// Depth below which operands of covered expressions are hoisted.
	InlineDepth int
	// Inline depth for specific units (by name), overriding InlineDepth.
	InlineDepthOverrides map[string]int
	// Name patterns (as for path.Match) of modules which are assertion
	// modules, in addition to those marked in the design.
	AssertionModules []string
	// Task through which assertion modules report coverage.
	CoverTask string
	// Determines whether a unit should be left uninstrumented.  Units nested
	// within an excluded unit are also excluded.
	Exclude func(*ast.FuncUnit) bool
}

// DefaultOptions returns options which enable all kinds of coverage.
func DefaultOptions() Options {
	return Options{
		Line:          true,
		Combinational: true,
		Memory:        true,
		Event:         true,
		FSM:           true,
		InlineDepth:   DEFAULT_INLINE_DEPTH,
		CoverTask:     DEFAULT_COVER_TASK,
	}
}

// InlineDepthFor returns the inline depth for statements of a given unit.  The
// innermost enclosing unit with an override determines the depth.
func (p *Options) InlineDepthFor(unit *ast.FuncUnit) int {
	for u := unit; u != nil; u = u.Parent {
		if d, ok := p.InlineDepthOverrides[u.Name]; ok && u.IsNamed() {
			return d
		}
	}
	//
	return p.InlineDepth
}

// IsAssertion determines whether a unit belongs to an assertion module.
func (p *Options) IsAssertion(unit *ast.FuncUnit) bool {
	module := unit.Module()
	//
	if module.Assertion {
		return true
	}
	//
	for _, pattern := range p.AssertionModules {
		if ok, _ := path.Match(pattern, module.Name); ok {
			return true
		}
	}
	//
	return false
}

// IsExcluded determines whether a given unit should be left uninstrumented.
func (p *Options) IsExcluded(unit *ast.FuncUnit) bool {
	if p.Exclude == nil {
		return false
	}
	//
	for u := unit; u != nil; u = u.Parent {
		if p.Exclude(u) {
			return true
		}
	}
	//
	return false
}
