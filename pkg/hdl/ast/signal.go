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
package ast

import (
	"strconv"
	"strings"
)

// SignalKind identifies how a signal was declared.
type SignalKind uint

const (
	// WIRE is a net.
	WIRE SignalKind = iota
	// REG is a variable.
	REG
	// INTEGER is a 32-bit signed variable.
	INTEGER
	// PARAMETER is a parameter or localparam.
	PARAMETER
	// GENVAR is a generate loop variable.
	GENVAR
)

var signalKinds = []string{"wire", "reg", "integer", "parameter", "genvar"}

// ParseSignalKind returns the kind with the given name.
func ParseSignalKind(name string) (SignalKind, bool) {
	for i, n := range signalKinds {
		if n == name {
			return SignalKind(i), true
		}
	}
	//
	return 0, false
}

func (k SignalKind) String() string {
	return signalKinds[k]
}

// Bound is one end of a declared range.  Bounds written as integers are
// constant; otherwise they are kept as expression text (e.g. "WIDTH-1").
type Bound struct {
	Text  string
	Value int
	Const bool
}

// ParseBound constructs a bound from its source text.
func ParseBound(text string) Bound {
	text = strings.TrimSpace(text)
	//
	if v, err := strconv.Atoi(text); err == nil {
		return Bound{text, v, true}
	} else if !strings.Contains(text, "'") {
		return Bound{text, 0, false}
	} else if v, ok := ParseConst(text).Int(); ok {
		return Bound{text, int(v), true}
	}
	//
	return Bound{text, 0, false}
}

// IntBound constructs a constant bound.
func IntBound(v int) Bound {
	return Bound{strconv.Itoa(v), v, true}
}

func (b Bound) String() string {
	return b.Text
}

// Dim is a declared range [Msb:Lsb].
type Dim struct {
	Msb Bound
	Lsb Bound
}

// IsConst checks whether both bounds of this range are constants.  The
// ordering of a range with a non-constant bound is only known after
// elaboration.
func (d Dim) IsConst() bool {
	return d.Msb.Const && d.Lsb.Const
}

// IsBigEndian checks whether this range is declared with its most
// significant bound numerically smaller (e.g. [0:7]).  This is false for
// ranges which are not constant, whose ordering is unknown.
func (d Dim) IsBigEndian() bool {
	return d.Msb.Const && d.Lsb.Const && d.Msb.Value < d.Lsb.Value
}

// Signal is a declared wire, register, integer or parameter.
type Signal struct {
	Name   string
	Kind   SignalKind
	Signed bool
	// Dimensions declared before the name.
	Packed []Dim
	// Dimensions declared after the name.  A signal with unpacked dimensions
	// is a memory.
	Unpacked []Dim
}

// IsMemory checks whether this signal has unpacked dimensions.
func (s *Signal) IsMemory() bool {
	return len(s.Unpacked) > 0
}

// Dims returns every dimension of this signal in selection order (unpacked
// first, then packed).
func (s *Signal) Dims() []Dim {
	dims := make([]Dim, 0, len(s.Unpacked)+len(s.Packed))
	dims = append(dims, s.Unpacked...)
	//
	return append(dims, s.Packed...)
}

// Dim returns the nth dimension in selection order.
func (s *Signal) Dim(n int) (Dim, bool) {
	dims := s.Dims()
	//
	if n < 0 || n >= len(dims) {
		return Dim{}, false
	}
	//
	return dims[n], true
}
