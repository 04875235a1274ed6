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
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/assert"
)

const testbenches = `package covered

import rego.v1

default exclude := false

exclude if startswith(input.unit.name, "tb_")

exclude if input.unit.kind == "task"

exclude if {
	input.unit.module in input.config.skip
}
`

func TestPolicy_01(t *testing.T) {
	engine, err := New("testbenches.rego", testbenches)
	assert.NoError(t, err)
	//
	checkExcluded(t, engine, true, Unit{Name: "tb_top", Kind: "module", Module: "tb_top"})
	checkExcluded(t, engine, false, Unit{Name: "top", Kind: "module", Module: "top"})
	checkExcluded(t, engine, true, Unit{Name: "check", Kind: "task", Module: "top"})
	checkExcluded(t, engine, false, Unit{Name: "blk", Kind: "named_block", Module: "top"})
}

func TestPolicy_02(t *testing.T) {
	var (
		engine, err = New("testbenches.rego", testbenches)
		module      = &ast.FuncUnit{Kind: ast.MODULE, Name: "legacy"}
		block       = &ast.FuncUnit{Kind: ast.NAMED_BLOCK, Name: "blk", Parent: module}
		other       = &ast.FuncUnit{Kind: ast.MODULE, Name: "top"}
		config      = map[string]any{"skip": []string{"legacy"}}
	)
	//
	assert.NoError(t, err)
	//
	exclude := engine.Exclude(config)
	assert.True(t, exclude(module))
	assert.True(t, exclude(block))
	assert.False(t, exclude(other))
	//
	unit := UnitOf(block)
	assert.Equal(t, "blk", unit.Path)
	assert.Equal(t, "legacy", unit.Module)
	assert.Equal(t, "named_block", unit.Kind)
}

func TestPolicy_03(t *testing.T) {
	// Undefined means not excluded
	engine, err := New("empty.rego", "package covered\n")
	assert.NoError(t, err)
	checkExcluded(t, engine, false, Unit{Name: "top", Kind: "module"})
	// Malformed policies are rejected
	_, err = New("broken.rego", "package covered\n\nexclude if {")
	assert.Error(t, err)
	// Non-boolean decisions are errors
	engine, err = New("string.rego", "package covered\n\nexclude := \"yes\"\n")
	assert.NoError(t, err)
	_, err = engine.Excluded(context.Background(), Input{Unit: Unit{Name: "top"}})
	assert.Error(t, err)
}

func TestPolicy_04(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.rego")
	//
	assert.NoError(t, os.WriteFile(path, []byte(testbenches), 0644))
	//
	engine, err := Load(path)
	assert.NoError(t, err)
	checkExcluded(t, engine, true, Unit{Name: "tb_x", Kind: "module"})
	//
	_, err = Load(filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}

// ============================================================================
// Framework
// ============================================================================

func checkExcluded(t *testing.T, engine *Engine, expected bool, unit Unit) {
	t.Helper()
	//
	excluded, err := engine.Excluded(context.Background(), Input{Unit: unit, Config: map[string]any{}})
	assert.NoError(t, err)
	assert.Equal(t, expected, excluded, "unit %s", unit.Name)
}
