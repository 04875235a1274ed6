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
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/consensys/go-covered/pkg/gen"
	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/schema"
)

//go:embed schema.cue
var configSchema []byte

// DEFAULT_OUTPUT is the directory into which instrumented files are written.
const DEFAULT_OUTPUT = "covered/verilog"

// FILENAME is the name of a project configuration file.
const FILENAME = "covered.json"

// Config determines how a design is instrumented.
type Config struct {
	// Design dump to instrument
	Design string `json:"design,omitempty"`
	// Directory into which instrumented files are written
	Output string `json:"output,omitempty"`
	// Maximum number of files instrumented in parallel (0 = unlimited)
	Jobs     int            `json:"jobs,omitempty"`
	Coverage CoverageConfig `json:"coverage"`
	// Depth below which operands of covered expressions are hoisted
	InlineDepth *int `json:"inlineDepth,omitempty"`
	// Inline depths for specific units
	InlineDepthOverrides map[string]int  `json:"inlineDepthOverrides,omitempty"`
	Assertion            AssertionConfig `json:"assertion"`
	// Name patterns of units left uninstrumented
	Exclude []string `json:"exclude,omitempty"`
	// Rego policy deciding further units to leave uninstrumented
	Policy string `json:"policy,omitempty"`
}

// CoverageConfig enables each kind of coverage, all of which are enabled
// unless stated otherwise.
type CoverageConfig struct {
	Line          *bool `json:"line,omitempty"`
	Combinational *bool `json:"combinational,omitempty"`
	Memory        *bool `json:"memory,omitempty"`
	Event         *bool `json:"event,omitempty"`
	FSM           *bool `json:"fsm,omitempty"`
}

// AssertionConfig identifies assertion library modules.
type AssertionConfig struct {
	// Name patterns of assertion modules
	Modules []string `json:"modules,omitempty"`
	// Task through which assertion modules report coverage
	CoverTask string `json:"coverTask,omitempty"`
}

// DefaultConfig returns a configuration with every kind of coverage enabled.
func DefaultConfig() *Config {
	var config Config
	//
	config.applyDefaults()
	//
	return &config
}

// Load finds and loads the configuration file, searching (in order):
// ./covered.json, ./.covered.json and ~/.config/covered/config.json.  If
// none exists, the default configuration is returned.
func Load() (*Config, error) {
	searchPaths := []string{FILENAME, "." + FILENAME}
	//
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "covered", "config.json"))
	}
	//
	for _, candidate := range searchPaths {
		if _, err := os.Stat(candidate); err == nil {
			return LoadFile(candidate)
		}
	}
	//
	return DefaultConfig(), nil
}

// LoadFile loads the configuration from a given file.  Relative paths within
// the file are resolved against the file's directory.
func LoadFile(filename string) (*Config, error) {
	var config Config
	//
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	//
	validator, err := schema.NewValidator(configSchema, "#Config")
	//
	if err != nil {
		return nil, err
	} else if err := validator.ValidateJSON(bytes); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	} else if err := json.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	//
	dir := filepath.Dir(filename)
	config.Design = resolve(dir, config.Design)
	config.Policy = resolve(dir, config.Policy)
	//
	if config.Output != "" {
		config.Output = resolve(dir, config.Output)
	}
	//
	config.applyDefaults()
	//
	return &config, nil
}

// Save writes this configuration to a given file.
func (c *Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	//
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	} else if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	//
	return nil
}

// Options returns the generator options determined by this configuration.
// Units are excluded when their name matches one of the exclusion patterns.
func (c *Config) Options() gen.Options {
	options := gen.Options{
		Line:                 *c.Coverage.Line,
		Combinational:        *c.Coverage.Combinational,
		Memory:               *c.Coverage.Memory,
		Event:                *c.Coverage.Event,
		FSM:                  *c.Coverage.FSM,
		InlineDepth:          *c.InlineDepth,
		InlineDepthOverrides: c.InlineDepthOverrides,
		AssertionModules:     c.Assertion.Modules,
		CoverTask:            c.Assertion.CoverTask,
	}
	//
	if len(c.Exclude) > 0 {
		options.Exclude = c.IsExcluded
	}
	//
	return options
}

// IsExcluded checks whether a given unit matches one of the exclusion
// patterns.
func (c *Config) IsExcluded(unit *ast.FuncUnit) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := path.Match(pattern, unit.Name); ok {
			return true
		}
	}
	//
	return false
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	for _, flag := range []**bool{&c.Coverage.Line, &c.Coverage.Combinational, &c.Coverage.Memory,
		&c.Coverage.Event, &c.Coverage.FSM} {
		if *flag == nil {
			*flag = boolPtr(true)
		}
	}
	//
	if c.InlineDepth == nil {
		depth := gen.DEFAULT_INLINE_DEPTH
		c.InlineDepth = &depth
	}
	//
	if c.Assertion.CoverTask == "" {
		c.Assertion.CoverTask = gen.DEFAULT_COVER_TASK
	}
	//
	if c.Output == "" {
		c.Output = DEFAULT_OUTPUT
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func resolve(dir string, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	//
	return filepath.Join(dir, name)
}
