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
package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// Validator checks JSON documents against a definition within a CUE schema.
// A validator is not safe for concurrent use.
type Validator struct {
	ctx        *cue.Context
	definition cue.Value
}

// NewValidator compiles a given schema and looks up the definition (e.g.
// "#Config") against which documents are validated.
func NewValidator(schema []byte, definition string) (*Validator, error) {
	ctx := cuecontext.New()
	//
	value := ctx.CompileBytes(schema)
	if value.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", value.Err())
	}
	//
	def := value.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up %s definition: %w", definition, def.Err())
	}
	//
	return &Validator{ctx, def}, nil
}

// ValidateJSON checks a JSON document conforms to the schema, returning an
// error listing every violation otherwise.
func (v *Validator) ValidateJSON(bytes []byte) error {
	data := v.ctx.CompileBytes(bytes)
	if data.Err() != nil {
		return fmt.Errorf("compiling JSON as CUE: %w", data.Err())
	}
	// Unify the data with the schema (this is CUE's type checking)
	unified := v.definition.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		//
		for _, e := range errors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		//
		return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}
	//
	return nil
}
