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
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-covered/pkg/gen"
	"github.com/consensys/go-covered/pkg/util/termio"
	"github.com/spf13/cobra"
)

var namesCmd = &cobra.Command{
	Use:   "names [flags] verilog_file(s)",
	Short: "list the signals synthesized within instrumented files.",
	Long: `List the coverage signals declared within one or more instrumented files.  With
	 --origin, the kind and source position from which each signal was derived are
	 also reported.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		origins := GetFlag(cmd, "origin")
		kinds := GetString(cmd, "kind")
		//
		for _, filename := range args {
			bytes, err := os.ReadFile(filename)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			names := filterNames(scanNames(string(bytes)), kinds)
			//
			if !origins {
				for _, name := range names {
					fmt.Println(strings.TrimSuffix(name, " "))
				}
			} else {
				tbl := originTable(names)
				tbl.AnsiEscapes(termio.IsTerminal(os.Stdout))
				tbl.Print(os.Stdout)
			}
		}
	},
}

// scanNames extracts the distinct synthesized names occurring in a given
// text, in order of first occurrence.  Each name includes its terminating
// space.
func scanNames(text string) []string {
	var (
		names []string
		seen  = make(map[string]bool)
	)
	//
	for {
		i := strings.Index(text, gen.NamePrefix)
		if i < 0 {
			break
		}
		//
		text = text[i:]
		end := strings.IndexAny(text, " \t\n")
		// Escaped identifiers must be terminated
		if end < 0 {
			break
		}
		//
		name := text[:end] + " "
		text = text[end:]
		//
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	//
	return names
}

// filterNames retains only names of the given kinds, as identified by their
// encoding characters.  An empty set of kinds retains everything.
func filterNames(names []string, kinds string) []string {
	if kinds == "" {
		return names
	}
	//
	var filtered []string
	//
	for _, name := range names {
		if origin, ok := gen.ParseName(name); ok && strings.IndexByte(kinds, byte(origin.Kind)) >= 0 {
			filtered = append(filtered, name)
		}
	}
	//
	return filtered
}

func originTable(names []string) *termio.TablePrinter {
	var (
		tbl   = termio.NewTablePrinter(4, uint(len(names)+1))
		title = termio.NewAnsiEscape().FgColour(termio.TERM_BLUE).Bold()
		bad   = termio.NewAnsiEscape().FgColour(termio.TERM_RED)
	)
	//
	tbl.SetRow(0, "Name", "Kind", "Position", "Scope")
	//
	for i := uint(0); i < 4; i++ {
		tbl.SetEscape(i, 0, title)
	}
	//
	for i, name := range names {
		row := uint(i + 1)
		origin, ok := gen.ParseName(name)
		//
		if !ok {
			tbl.SetRow(row, strings.TrimSuffix(name, " "), "?", "", "")
			tbl.SetEscape(1, row, bad)
			//
			continue
		}
		//
		tbl.SetRow(row, strings.TrimSuffix(name, " "), origin.Kind.String(), origin.Pos.String(), origin.Scope)
	}
	//
	return tbl
}

func init() {
	rootCmd.AddCommand(namesCmd)
	namesCmd.Flags().Bool("origin", false, "report the origin of each signal.")
	namesCmd.Flags().StringP("kind", "k", "", "only report signals of the given kinds (e.g. \"LC\").")
}
