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
	"testing"

	"github.com/consensys/go-covered/pkg/util/assert"
)

const testSchema = `
#Point: {
	x: int & >=0
	y: int & >=0
	label?: string
}
`

func TestValidator_01(t *testing.T) {
	v := checkValidator(t)
	assert.NoError(t, v.ValidateJSON([]byte(`{"x": 1, "y": 2}`)))
	assert.NoError(t, v.ValidateJSON([]byte(`{"x": 1, "y": 2, "label": "p"}`)))
}

func TestValidator_02(t *testing.T) {
	v := checkValidator(t)
	// negative coordinate
	assert.Error(t, v.ValidateJSON([]byte(`{"x": -1, "y": 2}`)))
	// missing field
	assert.Error(t, v.ValidateJSON([]byte(`{"x": 1}`)))
	// unknown field
	assert.Error(t, v.ValidateJSON([]byte(`{"x": 1, "y": 2, "z": 3}`)))
}

func TestValidator_03(t *testing.T) {
	_, err := NewValidator([]byte(testSchema), "#Missing")
	assert.Error(t, err)
}

// ============================================================================
// Framework
// ============================================================================

func checkValidator(t *testing.T) *Validator {
	v, err := NewValidator([]byte(testSchema), "#Point")
	assert.NoError(t, err)
	//
	return v
}
