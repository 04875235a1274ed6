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
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter lays out a fixed-size grid of strings into aligned columns.  The
// first column is left-aligned (since it typically holds names), whilst all
// others are right-aligned.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a table with the given number of columns and rows.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	escapes := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
		escapes[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows, escapes, false}
}

// Set the value of a given cell.
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// Height returns the number of rows in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape sets the escape sequence used when printing a given cell.
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// AnsiEscapes enables or disables escape sequences when printing.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetRow sets every cell in a given row.
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], uint(len(vals[i])))
	}
	// Done
	p.rows[row] = vals
}

// String returns the table as it would be printed, without escapes.
func (p *TablePrinter) String() string {
	var (
		builder strings.Builder
		enabled = p.enableEscapes
	)
	//
	p.enableEscapes = false
	p.Print(&builder)
	p.enableEscapes = enabled
	//
	return builder.String()
}

// Print this table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	for i, row := range p.rows {
		escapes := p.escapes[i]
		//
		for j, col := range row {
			width := int(p.widths[j])
			escape := p.enableEscapes && escapes[j] != ""
			// Print colour (if applicable)
			if escape {
				fmt.Fprint(out, escapes[j])
			}
			// Print data
			if j == 0 {
				fmt.Fprintf(out, "%-*s", width, col)
			} else {
				fmt.Fprintf(out, "  %*s", width, col)
			}
			// Cancel colour (if applicable)
			if escape {
				fmt.Fprint(out, ResetAnsiEscape().Build())
			}
		}

		fmt.Fprintln(out)
	}
}
