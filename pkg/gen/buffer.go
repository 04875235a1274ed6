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
	"bufio"
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// mark records where a token of the original source was placed within an
// emitted line, such that it can still be found after earlier parts of the
// line have been rewritten.
type mark struct {
	// Original position of the token's first character
	line, col int
	// Byte offset of the token within the emitted line
	offset int
	// Text of the token
	text string
}

// emitted is a line of output text, along with marks for every source token
// placed on it.
type emitted struct {
	text  string
	marks []mark
}

// cursor addresses a mark within the work lines.
type cursor struct {
	line int
	mark int
}

// Buffer accumulates the output text for a file.  Lines are initially "work"
// lines which can be rewritten by Replace, with the final work line being the
// line currently being emitted.  Once committed, lines move to the "hold" list
// where they can no longer be rewritten, although declarations can be
// inserted between them.  Nothing is written until the buffer is flushed.
type Buffer struct {
	work []*emitted
	hold []*emitted
	// Indicates the next source token should become the anchor.
	armed bool
	// First mark which can be replaced, or nil if nothing is replaceable.
	anchor *cursor
}

// NewBuffer constructs an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{work: []*emitted{{}}}
}

// Emit appends a token to the current line.  Tokens from the original source
// are marked with their original position (line and column), whilst
// generated tokens are not and, hence, can never be replaced.  A token
// containing line breaks is split across lines.
func (p *Buffer) Emit(token string, line int, col int, source bool) {
	for i, part := range strings.Split(token, "\n") {
		if i > 0 {
			p.Newline()
			line, col = line+1, 0
		}
		//
		if part == "" {
			continue
		}
		//
		current := p.work[len(p.work)-1]
		//
		if source {
			if p.armed && p.anchor == nil {
				p.anchor = &cursor{len(p.work) - 1, len(current.marks)}
			}
			//
			current.marks = append(current.marks, mark{line, col, len(current.text), part})
		}
		//
		current.text += part
	}
}

// Newline completes the current line and begins a new one.
func (p *Buffer) Newline() {
	p.work = append(p.work, &emitted{})
}

// IsLineBlank checks whether the current line contains only whitespace.
func (p *Buffer) IsLineBlank() bool {
	return strings.TrimFunc(p.work[len(p.work)-1].text, unicode.IsSpace) == ""
}

// MarkReplaceStart indicates that the next source token emitted (and those
// following it) may be subsequently replaced.
func (p *Buffer) MarkReplaceStart() {
	p.armed = true
	p.anchor = nil
}

// MarkReplaceEnd indicates that no further replacements will be made.
func (p *Buffer) MarkReplaceEnd() {
	p.armed = false
	p.anchor = nil
}

// Replace substitutes the given text for the source tokens which originally
// spanned a given region.  The region is located by searching forwards from
// the anchor, which then advances past the inserted text.  Thus, successive
// replacements must be made in source order.  If the region spans multiple
// lines then they are merged into one, keeping the text before the region on
// the first line and that following it on the last.  This returns false if
// nothing is currently replaceable, or the region could not be found.
func (p *Buffer) Replace(text string, firstLine, firstCol, lastLine, lastCol int) bool {
	if p.anchor == nil {
		return false
	}
	//
	start, ok := p.find(*p.anchor, func(m mark) bool {
		return m.line == firstLine && m.col == firstCol
	})
	//
	if !ok {
		return false
	}
	//
	end, ok := p.find(start, func(m mark) bool {
		return m.line == lastLine && m.col <= lastCol && lastCol < m.col+utf8.RuneCountInString(m.text)
	})
	//
	if !ok {
		return false
	}
	//
	var (
		first  = p.work[start.line]
		last   = p.work[end.line]
		ending = last.marks[end.mark]
		from   = first.marks[start.mark].offset
		to     = ending.offset + len(string([]rune(ending.text)[:lastCol-ending.col+1]))
		prefix = first.text[:from]
		suffix = last.text[to:]
		delta  = len(prefix) + len(text) - to
		marks  = slices.Clone(first.marks[:start.mark])
	)
	// Marks following the region move to their new offsets
	for _, m := range last.marks[end.mark+1:] {
		m.offset += delta
		marks = append(marks, m)
	}
	//
	first.text = prefix + text + suffix
	first.marks = marks
	// Merge lines
	p.work = slices.Delete(p.work, start.line+1, end.line+1)
	p.anchor = &cursor{start.line, start.mark}
	//
	return true
}

// find the first mark (starting from a given cursor) matching a predicate.
func (p *Buffer) find(from cursor, pred func(mark) bool) (cursor, bool) {
	for i := from.line; i < len(p.work); i++ {
		j := 0
		//
		if i == from.line {
			j = from.mark
		}
		//
		for ; j < len(p.work[i].marks); j++ {
			if pred(p.work[i].marks[j]) {
				return cursor{i, j}, true
			}
		}
	}
	//
	return from, false
}

// Commit moves all completed work lines to the hold list, after which they
// can no longer be replaced.
func (p *Buffer) Commit() {
	n := len(p.work) - 1
	//
	p.hold = append(p.hold, p.work[:n]...)
	p.work = []*emitted{p.work[n]}
	p.MarkReplaceEnd()
}

// HoldLen returns the number of lines which have been committed.
func (p *Buffer) HoldLen() int {
	return len(p.hold)
}

// InsertHold inserts a new line immediately before the nth committed line.
func (p *Buffer) InsertHold(n int, text string) {
	p.hold = slices.Insert(p.hold, n, &emitted{text: text})
}

// Lines returns the text of every line in this buffer, including the current
// line.
func (p *Buffer) Lines() []string {
	var lines []string
	//
	for _, l := range p.hold {
		lines = append(lines, l.text)
	}
	//
	for _, l := range p.work {
		lines = append(lines, l.text)
	}
	//
	return lines
}

// Flush commits all lines and writes them to a given writer.
func (p *Buffer) Flush(out io.Writer) error {
	writer := bufio.NewWriter(out)
	//
	p.Commit()
	//
	for _, l := range p.hold {
		if _, err := writer.WriteString(l.text + "\n"); err != nil {
			return err
		}
	}
	//
	if _, err := writer.WriteString(p.work[0].text); err != nil {
		return err
	}
	//
	return writer.Flush()
}
