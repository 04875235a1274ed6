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
package source

import "fmt"

// Position identifies a region of an original source file in terms of lines
// and columns.  Lines are counted from 1 and columns from 0, and both the last
// line and the last column are inclusive.  Thus, a single character at the
// start of a file has position 1.0-1.0.
type Position struct {
	FirstLine int
	FirstCol  int
	LastLine  int
	LastCol   int
}

// NewPosition constructs a new position whilst checking the internal
// invariants are maintained.
func NewPosition(firstLine, firstCol, lastLine, lastCol int) Position {
	if firstLine <= 0 || firstCol < 0 || lastCol < 0 {
		panic("invalid position")
	} else if ComparePoints(firstLine, firstCol, lastLine, lastCol) > 0 {
		panic("invalid position")
	}
	//
	return Position{firstLine, firstCol, lastLine, lastCol}
}

// At constructs a position covering exactly one character.
func At(line int, col int) Position {
	return NewPosition(line, col, line, col)
}

// IsValid checks whether this position was ever assigned.  The zero position
// is never valid since lines count from 1.
func (p Position) IsValid() bool {
	return p.FirstLine > 0
}

// StartsAt checks whether this position begins at the given point.
func (p Position) StartsAt(line, col int) bool {
	return p.FirstLine == line && p.FirstCol == col
}

// EndsAt checks whether this position finishes at the given point.
func (p Position) EndsAt(line, col int) bool {
	return p.LastLine == line && p.LastCol == col
}

// CompareStart orders this position against a given point using its first
// character.
func (p Position) CompareStart(line, col int) int {
	return ComparePoints(p.FirstLine, p.FirstCol, line, col)
}

// CompareEnd orders the final character of this position against a given
// point.
func (p Position) CompareEnd(line, col int) int {
	return ComparePoints(p.LastLine, p.LastCol, line, col)
}

// Contains checks whether a given point lies within this position.
func (p Position) Contains(line, col int) bool {
	return p.CompareStart(line, col) <= 0 && p.CompareEnd(line, col) >= 0
}

// Compare orders two positions by their first character, breaking ties using
// their last character.
func Compare(p, q Position) int {
	if c := ComparePoints(p.FirstLine, p.FirstCol, q.FirstLine, q.FirstCol); c != 0 {
		return c
	}
	//
	return ComparePoints(p.LastLine, p.LastCol, q.LastLine, q.LastCol)
}

// ComparePoints orders two (line,column) points in source order.
func ComparePoints(l1, c1, l2, c2 int) int {
	switch {
	case l1 < l2:
		return -1
	case l1 > l2:
		return 1
	case c1 < c2:
		return -1
	case c1 > c2:
		return 1
	default:
		return 0
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%d.%d-%d.%d", p.FirstLine, p.FirstCol, p.LastLine, p.LastCol)
}
