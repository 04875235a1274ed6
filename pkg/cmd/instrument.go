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
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consensys/go-covered/pkg/config"
	"github.com/consensys/go-covered/pkg/gen"
	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/hdl/design"
	"github.com/consensys/go-covered/pkg/policy"
	"github.com/consensys/go-covered/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument [flags] [design_file]",
	Short: "instrument the source files of a design.",
	Long: `Instrument every source file of a given design dump, writing the instrumented
	 files into the output directory.  When no design file is given, the one named by
	 the configuration is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig(cmd)
		// Apply command-line overrides
		if len(args) == 1 {
			cfg.Design = args[0]
		}
		//
		applyOverrides(cmd, cfg)
		//
		if cfg.Design == "" {
			fmt.Println("no design file given")
			os.Exit(2)
		}
		// Read design
		dsn, err := design.Load(cfg.Design)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		options := buildOptions(cfg)
		generator := gen.NewGenerator(dsn, options)
		//
		results, err := generator.Run(context.Background(), cfg.Output, cfg.Jobs)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Infof("wrote %d file(s) to %s", len(results), cfg.Output)
		//
		if !GetFlag(cmd, "quiet") {
			tbl := summarise(results)
			tbl.AnsiEscapes(termio.IsTerminal(os.Stdout))
			tbl.Print(os.Stdout)
		}
	},
}

// readConfig reads the configuration given on the command line or, failing
// that, the first one found in the standard locations.
func readConfig(cmd *cobra.Command) *config.Config {
	var (
		cfg      *config.Config
		err      error
		filename = GetString(cmd, "config")
	)
	//
	if filename != "" {
		cfg, err = config.LoadFile(filename)
	} else {
		cfg, err = config.Load()
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if Changed(cmd, "output") {
		cfg.Output = GetString(cmd, "output")
	}
	//
	if Changed(cmd, "jobs") {
		cfg.Jobs = GetInt(cmd, "jobs")
	}
	//
	if Changed(cmd, "inline-depth") {
		depth := GetInt(cmd, "inline-depth")
		cfg.InlineDepth = &depth
	}
	//
	if Changed(cmd, "policy") {
		cfg.Policy = GetString(cmd, "policy")
	}
	//
	cfg.Exclude = append(cfg.Exclude, GetStringArray(cmd, "exclude")...)
	// Disable coverage kinds
	for flag, enabled := range map[string]**bool{
		"no-line":   &cfg.Coverage.Line,
		"no-comb":   &cfg.Coverage.Combinational,
		"no-memory": &cfg.Coverage.Memory,
		"no-event":  &cfg.Coverage.Event,
		"no-fsm":    &cfg.Coverage.FSM,
	} {
		if GetFlag(cmd, flag) {
			disabled := false
			*enabled = &disabled
		}
	}
}

// buildOptions determines the generator options for a given configuration,
// including any units excluded by its policy.
func buildOptions(cfg *config.Config) gen.Options {
	options := cfg.Options()
	//
	if cfg.Policy == "" {
		return options
	}
	//
	engine, err := policy.Load(cfg.Policy)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	excluded := engine.Exclude(cfg)
	//
	options.Exclude = func(unit *ast.FuncUnit) bool {
		return cfg.IsExcluded(unit) || excluded(unit)
	}
	//
	return options
}

// summarise tabulates the number of signals of each kind synthesized for each
// file, followed by the totals across all files.
func summarise(results []*gen.Result) *termio.TablePrinter {
	var (
		width  = uint(len(gen.Kinds) + 2)
		height = uint(len(results) + 2)
		tbl    = termio.NewTablePrinter(width, height)
		totals = make(gen.Stats)
		title  = termio.NewAnsiEscape().FgColour(termio.TERM_BLUE).Bold()
	)
	// Title row
	tbl.Set(0, 0, "File")
	//
	for i, kind := range gen.Kinds {
		tbl.Set(uint(i+1), 0, kind.String())
	}
	//
	tbl.Set(width-1, 0, "total")
	//
	for i := uint(0); i < width; i++ {
		tbl.SetEscape(i, 0, title)
	}
	// File rows
	for i, result := range results {
		summariseRow(tbl, uint(i+1), result.File.Name, result.Stats)
		//
		for k, n := range result.Stats {
			totals[k] += n
		}
	}
	// Totals
	summariseRow(tbl, height-1, "", totals)
	//
	return tbl
}

func summariseRow(tbl *termio.TablePrinter, row uint, name string, stats gen.Stats) {
	tbl.Set(0, row, name)
	//
	for i, kind := range gen.Kinds {
		tbl.Set(uint(i+1), row, fmt.Sprintf("%d", stats[kind]))
	}
	//
	tbl.Set(uint(len(gen.Kinds)+1), row, fmt.Sprintf("%d", stats.Total()))
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(instrumentCmd)
	instrumentCmd.Flags().StringP("config", "c", "", "specify configuration file.")
	instrumentCmd.Flags().StringP("output", "o", config.DEFAULT_OUTPUT, "specify output directory.")
	instrumentCmd.Flags().IntP("jobs", "j", 0, "maximum number of files instrumented in parallel.")
	instrumentCmd.Flags().Int("inline-depth", gen.DEFAULT_INLINE_DEPTH, "depth below which operands are hoisted.")
	instrumentCmd.Flags().StringArrayP("exclude", "x", []string{}, "exclude units matching pattern.")
	instrumentCmd.Flags().String("policy", "", "specify rego exclusion policy.")
	instrumentCmd.Flags().Bool("no-line", false, "disable line coverage.")
	instrumentCmd.Flags().Bool("no-comb", false, "disable combinational coverage.")
	instrumentCmd.Flags().Bool("no-memory", false, "disable memory coverage.")
	instrumentCmd.Flags().Bool("no-event", false, "disable event coverage.")
	instrumentCmd.Flags().Bool("no-fsm", false, "disable FSM coverage.")
	instrumentCmd.Flags().BoolP("quiet", "q", false, "suppress summary of synthesized signals.")
}
