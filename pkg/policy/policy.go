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
package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/open-policy-agent/opa/rego"
	log "github.com/sirupsen/logrus"
)

// QUERY is evaluated against each unit to decide whether it is excluded.
const QUERY = "data.covered.exclude"

// Engine evaluates an exclusion policy written in rego.  Given a functional
// unit (and the active configuration), the policy decides whether the unit is
// left uninstrumented.  For example:
//
//	package covered
//
//	import rego.v1
//
//	exclude if startswith(input.unit.name, "tb_")
type Engine struct {
	query rego.PreparedEvalQuery
}

// Unit describes a functional unit to the policy.
type Unit struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
	// Dotted path of the unit within its module
	Path string `json:"path"`
	// Name of the enclosing module
	Module string `json:"module"`
}

// Input is the document against which the policy is evaluated.
type Input struct {
	Unit   Unit `json:"unit"`
	Config any  `json:"config"`
}

// Load an exclusion policy from a given rego file.
func Load(filename string) (*Engine, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	//
	return New(filename, string(bytes))
}

// New prepares an exclusion policy from a given rego module.
func New(filename string, module string) (*Engine, error) {
	query, err := rego.New(rego.Module(filename, module), rego.Query(QUERY)).PrepareForEval(context.Background())
	//
	if err != nil {
		return nil, fmt.Errorf("preparing policy %s: %w", filename, err)
	}
	//
	return &Engine{query}, nil
}

// Excluded determines whether the policy excludes a given unit.  A policy
// which leaves exclude undefined for the unit does not exclude it.
func (p *Engine) Excluded(ctx context.Context, input Input) (bool, error) {
	document, err := toMap(input)
	//
	if err != nil {
		return false, fmt.Errorf("converting input: %w", err)
	}
	//
	rs, err := p.query.Eval(ctx, rego.EvalInput(document))
	//
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", QUERY, err)
	} else if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	} else if b, ok := rs[0].Expressions[0].Value.(bool); ok {
		return b, nil
	}
	//
	return false, fmt.Errorf("%s is not a boolean (%v)", QUERY, rs[0].Expressions[0].Value)
}

// Exclude returns a function which applies this policy to units under a
// given configuration.  Units for which the policy cannot be evaluated are
// not excluded.
func (p *Engine) Exclude(config any) func(*ast.FuncUnit) bool {
	return func(unit *ast.FuncUnit) bool {
		excluded, err := p.Excluded(context.Background(), Input{UnitOf(unit), config})
		//
		if err != nil {
			log.Warnf("%s: %s", unit.Name, err)
			return false
		}
		//
		return excluded
	}
}

// UnitOf describes a given functional unit.
func UnitOf(unit *ast.FuncUnit) Unit {
	module := unit.Module()
	//
	return Unit{
		Name:   unit.Name,
		Kind:   unit.Kind.String(),
		File:   unit.Filename,
		Path:   strings.Join(unit.Path(), "."),
		Module: module.Name,
	}
}

// Rego works over generic documents, rather than structs.
func toMap(v any) (map[string]any, error) {
	var result map[string]any
	//
	data, err := json.Marshal(v)
	//
	if err != nil {
		return nil, err
	}
	//
	err = json.Unmarshal(data, &result)
	//
	return result, err
}
