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
package token

import (
	"fmt"
	"strings"

	"github.com/consensys/go-covered/pkg/util/source"
	"github.com/consensys/go-covered/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals spaces, tabs or carriage returns.
const WHITESPACE uint = 1

// NEWLINE signals a line feed.
const NEWLINE uint = 2

// COMMENT signals either a line comment or a (possibly multi-line) block
// comment.
const COMMENT uint = 3

// STRING signals a string literal.
const STRING uint = 4

// DIRECTIVE signals a compiler directive or macro use (e.g. "`timescale").
const DIRECTIVE uint = 5

// IDENTIFIER signals a simple identifier or keyword.
const IDENTIFIER uint = 6

// ESCAPED signals an escaped identifier (e.g. "\bus+index ").
const ESCAPED uint = 7

// SYSTEM signals a system task or function name (e.g. "$display").
const SYSTEM uint = 8

// NUMBER signals a sized, based or plain number.
const NUMBER uint = 9

// OPERATOR signals an operator or punctuation character.
const OPERATOR uint = 10

// UNKNOWN signals a character which was not recognised.
const UNKNOWN uint = 11

// Token is a single lexeme of a Verilog source file, along with the position
// at which it began in the original file (lines from 1, columns from 0).
type Token struct {
	Kind uint
	Text string
	Line int
	Col  int
}

// Position returns the region of the original file covered by this token.
// Tokens never span lines, except for block comments.
func (t Token) Position() source.Position {
	var (
		line = t.Line
		col  = t.Col - 1
	)
	// Empty tokens (e.g. at the end of the file) occupy a single column.
	if t.Text == "" {
		return source.At(t.Line, t.Col)
	}
	//
	for _, c := range t.Text {
		if c == '\n' {
			line++
			col = -1
		} else {
			col++
		}
	}
	//
	return source.NewPosition(t.Line, t.Col, line, max(col, 0))
}

// IsLayout determines whether this token has no effect on the meaning of the
// file.
func (t Token) IsLayout() bool {
	return t.Kind == WHITESPACE || t.Kind == NEWLINE || t.Kind == COMMENT
}

func (t Token) String() string {
	return fmt.Sprintf("%d.%d:%q", t.Line, t.Col, t.Text)
}

// Operators are ordered longest first so that the longest possible match is
// always taken.
var operators = []string{
	"<<<", ">>>", "===", "!==",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "~&", "~|", "~^", "^~",
	"**", "+:", "-:", "->", "(*", "*)",
}

var identStart = lex.Or(lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Unit('_'))

var identRest = lex.Or(identStart, lex.Within('0', '9'), lex.Unit('$'))

var digits = lex.Many(lex.Or(lex.Within('0', '9'), lex.Unit('_')))

var baseDigits = lex.Many(lex.Or(
	lex.Within('0', '9'), lex.Within('a', 'f'), lex.Within('A', 'F'),
	lex.OneOf('x', 'X', 'z', 'Z', '?', '_')))

var radix = lex.OneOf('b', 'B', 'o', 'O', 'd', 'D', 'h', 'H')

var rules = []lex.LexRule[rune]{
	lex.Rule(lex.Many(lex.OneOf(' ', '\t', '\r', '\f')), WHITESPACE),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lineComment, COMMENT),
	lex.Rule(lex.Delimited([]rune("/*"), []rune("*/")), COMMENT),
	lex.Rule(stringLiteral, STRING),
	lex.Rule(lex.Sequence(lex.Unit('`'), lex.Many(identRest)), DIRECTIVE),
	lex.Rule(lex.Sequence(lex.Unit('\\'), lex.Many(lex.Except(' ', '\t', '\r', '\n'))), ESCAPED),
	lex.Rule(lex.Sequence(lex.Unit('$'), lex.Many(identRest)), SYSTEM),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(number, NUMBER),
	lex.Rule(operator, OPERATOR),
	lex.Rule(lex.Eof[rune](), END_OF),
	lex.Rule(lex.Except[rune](), UNKNOWN),
}

// Tokenize splits the contents of a given file into tokens, finishing with an
// END_OF token.  Every character of the file belongs to exactly one token,
// hence concatenating the token text reproduces the file.
func Tokenize(file *source.File) []Token {
	var (
		contents = file.Contents()
		lexer    = lex.NewLexer(contents, rules...).TrackLines('\n')
		tokens   []Token
	)
	//
	for lexer.HasNext() {
		t := lexer.Next()
		text := string(contents[t.Span.Start():t.Span.End()])
		tokens = append(tokens, Token{t.Kind, text, t.Line, t.Col})
	}
	//
	return tokens
}

// Text concatenates the text of a sequence of tokens.
func Text(tokens []Token) string {
	var builder strings.Builder
	//
	for _, t := range tokens {
		builder.WriteString(t.Text)
	}
	//
	return builder.String()
}

// Match a number, either plain (e.g. 10 or 1.5), sized (e.g. 4'b1010) or
// unsized (e.g. 'hFF).
func number(items []rune) uint {
	n := digits(items)
	// fractional part
	if n > 0 && int(n) < len(items) && items[n] == '.' {
		if m := digits(items[n+1:]); m > 0 {
			n += 1 + m
		}
	}
	// base specifier
	if m := base(items[n:]); m > 0 {
		n += m
		n += baseDigits(items[n:])
	}
	//
	return n
}

// Match a base specifier such as 'h, 'sd or 'B.
func base(items []rune) uint {
	if len(items) < 2 || items[0] != '\'' {
		return 0
	}
	//
	n := uint(1)
	if items[1] == 's' || items[1] == 'S' {
		n++
	}
	//
	if m := radix(items[n:]); m > 0 {
		return n + m
	}
	//
	return 0
}

func identifier(items []rune) uint {
	if identStart(items) == 0 {
		return 0
	}
	//
	return 1 + lex.Many(identRest)(items[1:])
}

func lineComment(items []rune) uint {
	if lex.String("//")(items) == 0 {
		return 0
	}
	//
	return 2 + lex.Until('\n')(items[2:])
}

func operator(items []rune) uint {
	for _, op := range operators {
		if n := lex.String(op)(items); n > 0 {
			return n
		}
	}
	//
	return lex.OneOf([]rune("+-*/%<>=!&|^~?:;,.()[]{}@#'")...)(items)
}

// Match a string literal, respecting escaped quotes.  An unterminated string
// ends at the end of the line.
func stringLiteral(items []rune) uint {
	if len(items) == 0 || items[0] != '"' {
		return 0
	}
	//
	for i := 1; i < len(items); i++ {
		switch items[i] {
		case '\\':
			i++
		case '"':
			return uint(i + 1)
		case '\n':
			return uint(i)
		}
	}
	//
	return uint(len(items))
}
