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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/hdl/design"
	"github.com/consensys/go-covered/pkg/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Generator instruments the source files of a design.
type Generator struct {
	design  *ast.Design
	options Options
}

// Result is the outcome of instrumenting a single file.
type Result struct {
	File *ast.File
	// Instrumented source text
	Text string
	// Names of synthesized signals, in declaration order
	Names []string
	Stats Stats
}

// NewGenerator constructs a generator for a given design.
func NewGenerator(design *ast.Design, options Options) *Generator {
	return &Generator{design, options}
}

// Instrument a single file of the design.  This must not be called
// concurrently for the same file, since the transient state of its
// expressions is reset and updated.
func (p *Generator) Instrument(file *ast.File) (*Result, error) {
	src, err := design.Source(file)
	//
	if err != nil {
		return nil, err
	}
	//
	ctx := NewContext(p.design, src, &p.options)
	text := ctx.Run(p.design.ModulesOf(file.Name))
	//
	return &Result{file, text, ctx.Names(), ctx.Stats()}, nil
}

// Run instruments every file of the design, writing each into a given output
// directory under its original base name.  Files are instrumented in
// parallel using (at most) a given number of jobs, since no state is shared
// between them.  The results are returned in the order of the design's files.
func (p *Generator) Run(ctx context.Context, outdir string, jobs int) ([]*Result, error) {
	var (
		results = make([]*Result, len(p.design.Files))
		stats   = util.NewPerfStats()
	)
	//
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return nil, err
	}
	//
	group, ctx := errgroup.WithContext(ctx)
	//
	if jobs > 0 {
		group.SetLimit(jobs)
	}
	//
	for i, file := range p.design.Files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			//
			result, err := p.Instrument(file)
			//
			if err != nil {
				return fmt.Errorf("%s: %w", file.Name, err)
			}
			//
			target := filepath.Join(outdir, filepath.Base(file.Name))
			//
			if err := os.WriteFile(target, []byte(result.Text), 0644); err != nil {
				return err
			}
			//
			log.Debugf("%s: %d signals written to %s", file.Name, result.Stats.Total(), target)
			results[i] = result
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	stats.Log("Instrumenting design")
	//
	return results, nil
}
