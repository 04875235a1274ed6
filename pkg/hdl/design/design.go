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
package design

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/schema"
	"github.com/consensys/go-covered/pkg/util/source"
)

//go:embed schema.cue
var designSchema []byte

type jsonDesign struct {
	Files []ast.File `json:"files"`
	Units []jsonUnit `json:"units"`
}

type jsonUnit struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	File      string       `json:"file"`
	Parent    string       `json:"parent"`
	Start     []int        `json:"start"`
	Header    []int        `json:"header"`
	End       []int        `json:"end"`
	Assertion bool         `json:"assertion"`
	Signals   []jsonSignal `json:"signals"`
	Exprs     []jsonExpr   `json:"exprs"`
	Stmts     []jsonStmt   `json:"stmts"`
	FSMs      []jsonFSM    `json:"fsms"`
}

type jsonSignal struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Signed   bool      `json:"signed"`
	Packed   []jsonDim `json:"packed"`
	Unpacked []jsonDim `json:"unpacked"`
}

type jsonDim struct {
	Msb string `json:"msb"`
	Lsb string `json:"lsb"`
}

type jsonExpr struct {
	ID     int    `json:"id"`
	Op     ast.Op `json:"op"`
	Left   int    `json:"left"`
	Right  int    `json:"right"`
	Pos    []int  `json:"pos"`
	Signal string `json:"signal"`
	Value  string `json:"value"`
	Name   string `json:"name"`
	Dim    int    `json:"dim"`
	Width  int    `json:"width"`
	Owned  bool   `json:"owned"`
}

type jsonStmt struct {
	ID     int   `json:"id"`
	Expr   int   `json:"expr"`
	True   int   `json:"true"`
	False  int   `json:"false"`
	Extent []int `json:"extent"`
	Header bool  `json:"header"`
}

type jsonFSM struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Load reads a design dump from a given file.  Files of the design whose
// paths are relative are resolved against the directory of the dump.
func Load(filename string) (*ast.Design, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading design: %w", err)
	}
	//
	design, err := Parse(bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	for _, f := range design.Files {
		if f.Path != "" && !filepath.IsAbs(f.Path) {
			f.Path = filepath.Join(filepath.Dir(filename), f.Path)
		}
	}
	//
	return design, nil
}

// Parse validates a design dump against the design schema, and then resolves
// it into a design.
func Parse(bytes []byte) (*ast.Design, error) {
	var dump jsonDesign
	//
	validator, err := schema.NewValidator(designSchema, "#Design")
	if err != nil {
		return nil, err
	} else if err := validator.ValidateJSON(bytes); err != nil {
		return nil, err
	} else if err := json.Unmarshal(bytes, &dump); err != nil {
		return nil, fmt.Errorf("decoding design: %w", err)
	}
	//
	return newResolver().resolve(&dump)
}

// Source returns the contents of a given file of a design, either as given
// inline or by reading it from disk.
func Source(file *ast.File) (*source.File, error) {
	if file.Source != "" || file.Path == "" {
		return source.NewSourceFile(file.Name, []byte(file.Source)), nil
	}
	//
	bytes, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	//
	return source.NewSourceFile(file.Name, bytes), nil
}
