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
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-covered/pkg/hdl/ast"
	"github.com/consensys/go-covered/pkg/util/source"
)

// Kind identifies the purpose of a synthesized signal.  Each kind is encoded
// as a single character within the signal's name.
type Kind byte

const (
	// LINE is a statement hit flag.
	LINE Kind = 'L'
	// COMB records the operand values of a binary operator.
	COMB Kind = 'C'
	// UNARY records the operand value of a unary operator or condition.
	UNARY Kind = 'U'
	// EVENT records that an event fired.
	EVENT Kind = 'E'
	// SHADOW holds the previously sampled value of an event operand.
	SHADOW Kind = 'e'
	// TEMP holds the value of a hoisted expression.
	TEMP Kind = 'X'
	// MEM_READ records the address of a memory read.
	MEM_READ Kind = 'R'
	// MEM_WRITE records the value and address of a memory write.
	MEM_WRITE Kind = 'W'
	// FSM records the current and next state of a state machine.
	FSM Kind = 'F'
)

// Kinds lists every kind of synthesized signal.
var Kinds = []Kind{LINE, COMB, UNARY, EVENT, SHADOW, TEMP, MEM_READ, MEM_WRITE, FSM}

// NamePrefix begins every synthesized name.  Since it contains a '$' and is
// escaped, it cannot collide with a user identifier.
const NamePrefix = "\\covered$"

func (k Kind) String() string {
	switch k {
	case LINE:
		return "line"
	case COMB:
		return "combinational"
	case UNARY:
		return "unary"
	case EVENT:
		return "event"
	case SHADOW:
		return "shadow"
	case TEMP:
		return "temporary"
	case MEM_READ:
		return "memory read"
	case MEM_WRITE:
		return "memory write"
	case FSM:
		return "fsm"
	}
	//
	return fmt.Sprintf("kind(%c)", byte(k))
}

// NameFor synthesizes the name of a signal of a given kind for a given
// expression, as it occurs within a given unit.  The name encodes the first
// and last lines of the expression, followed by its first and last columns
// packed into a single hex value.  Columns which do not fit in 16 bits are
// instead given a hex field each.  Expressions within tasks, functions or
// named blocks are qualified by the path to their enclosing unit.  The name
// is an escaped identifier and, hence, includes its terminating space.
func NameFor(kind Kind, e *ast.Expr, unit *ast.FuncUnit) string {
	var (
		builder strings.Builder
		pos     = e.Pos
	)
	//
	builder.WriteString(NamePrefix)
	builder.WriteByte(byte(kind))
	fmt.Fprintf(&builder, "%d_%d_", pos.FirstLine, pos.LastLine)
	//
	if pos.FirstCol > maxPackedCol || pos.LastCol > maxPackedCol {
		fmt.Fprintf(&builder, "%x_%x", pos.FirstCol, pos.LastCol)
	} else {
		fmt.Fprintf(&builder, "%x", (pos.FirstCol<<16)|pos.LastCol)
	}
	//
	if path := unit.Path(); len(path) > 0 {
		builder.WriteByte('$')
		builder.WriteString(strings.Join(path, "."))
	}
	//
	builder.WriteByte(' ')
	//
	return builder.String()
}

// Origin describes what a synthesized name was derived from.
type Origin struct {
	Kind  Kind
	Pos   source.Position
	Scope string
}

// ParseName recovers the origin encoded within a synthesized name.  This is
// the inverse of NameFor, as needed when reporting on the signals of an
// instrumented design.
func ParseName(name string) (Origin, bool) {
	var origin Origin
	//
	name = strings.TrimSuffix(name, " ")
	//
	if !strings.HasPrefix(name, NamePrefix) || len(name) <= len(NamePrefix)+1 {
		return origin, false
	}
	//
	body := name[len(NamePrefix):]
	origin.Kind = Kind(body[0])
	body = body[1:]
	//
	if i := strings.IndexByte(body, '$'); i >= 0 {
		body, origin.Scope = body[:i], body[i+1:]
	}
	//
	fields := strings.Split(body, "_")
	//
	if len(fields) != 3 && len(fields) != 4 {
		return origin, false
	}
	//
	firstLine, err1 := strconv.Atoi(fields[0])
	lastLine, err2 := strconv.Atoi(fields[1])
	firstCol, lastCol, ok := parseCols(fields[2:])
	//
	if err1 != nil || err2 != nil || !ok || firstLine <= 0 || lastLine < firstLine {
		return origin, false
	}
	//
	origin.Pos = source.Position{FirstLine: firstLine, FirstCol: firstCol, LastLine: lastLine, LastCol: lastCol}
	//
	return origin, true
}

// maxPackedCol is the largest column which can share a hex field with another.
const maxPackedCol = 0xffff

// parseCols recovers the first and last columns from either one packed hex
// field, or two separate ones.
func parseCols(fields []string) (int, int, bool) {
	if len(fields) == 1 {
		cols, err := strconv.ParseUint(fields[0], 16, 32)
		//
		return int(cols >> 16), int(cols & maxPackedCol), err == nil
	}
	//
	first, err1 := strconv.ParseUint(fields[0], 16, 31)
	last, err2 := strconv.ParseUint(fields[1], 16, 31)
	// packed names are only split when they must be
	if err1 != nil || err2 != nil || (first <= maxPackedCol && last <= maxPackedCol) {
		return 0, 0, false
	}
	//
	return int(first), int(last), true
}
