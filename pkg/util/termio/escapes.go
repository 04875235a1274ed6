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

import "fmt"

// TERM_RED is the ANSI colour code for red.
const TERM_RED = uint(1)

// TERM_GREEN is the ANSI colour code for green.
const TERM_GREEN = uint(2)

// TERM_YELLOW is the ANSI colour code for yellow.
const TERM_YELLOW = uint(3)

// TERM_BLUE is the ANSI colour code for blue.
const TERM_BLUE = uint(4)

// TERM_CYAN is the ANSI colour code for cyan.
const TERM_CYAN = uint(6)

// AnsiEscape is a partially constructed escape sequence which accumulates
// attributes (e.g. foreground colour, bold) until it is built.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape constructs an escape sequence with no attributes.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape constructs the escape sequence which clears all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// Bold adds the bold attribute.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.attribute(1)
}

// FgColour sets the foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.attribute(30 + col)
}

func (p AnsiEscape) attribute(code uint) AnsiEscape {
	if p.count > 0 {
		return AnsiEscape{fmt.Sprintf("%s;%d", p.escape, code), p.count + 1}
	}
	//
	return AnsiEscape{fmt.Sprintf("%s[%d", p.escape, code), p.count + 1}
}

// Build the escape sequence.
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("%sm", p.escape)
}

// Wrap some text in this escape, resetting attributes afterwards.
func (p AnsiEscape) Wrap(text string) string {
	return p.Build() + text + ResetAnsiEscape().Build()
}
