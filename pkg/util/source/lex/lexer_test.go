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
package lex

import (
	"slices"
	"testing"

	"github.com/consensys/go-covered/pkg/util/assert"
	"github.com/consensys/go-covered/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	var tokens = []Token{
		{END_OF, source.NewSpan(0, 0), 1, 0},
	}

	checkLexer(t, "", 0, tokens...)
}

func TestLexer_01(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1), 1, 0},
		{END_OF, source.NewSpan(1, 1), 1, 1},
	}

	checkLexer(t, "(", 0, tokens...)
}

func TestLexer_02(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1), 1, 0},
		{RBRACE, source.NewSpan(1, 2), 1, 1},
		{END_OF, source.NewSpan(2, 2), 1, 2},
	}

	checkLexer(t, "()", 0, tokens...)
}

func TestLexer_03(t *testing.T) {
	var tokens = []Token{}

	checkLexer(t, "x", 1, tokens...)
}

func TestLexer_04(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1), 1, 0},
		{WSPACE, source.NewSpan(1, 3), 1, 1},
		{RBRACE, source.NewSpan(3, 4), 1, 3},
		{END_OF, source.NewSpan(4, 4), 1, 4},
	}

	checkLexer(t, "(  )", 0, tokens...)
}

func TestLexer_05(t *testing.T) {
	var tokens = []Token{
		{NUMBER, source.NewSpan(0, 3), 1, 0},
		{END_OF, source.NewSpan(3, 3), 1, 3},
	}

	checkLexer(t, "123", 0, tokens...)
}

func TestLexer_06(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1), 1, 0},
		{NEWLINE, source.NewSpan(1, 2), 1, 1},
		{WSPACE, source.NewSpan(2, 4), 2, 0},
		{NUMBER, source.NewSpan(4, 6), 2, 2},
		{NEWLINE, source.NewSpan(6, 7), 2, 4},
		{RBRACE, source.NewSpan(7, 8), 3, 0},
		{END_OF, source.NewSpan(8, 8), 3, 1},
	}

	checkLexer(t, "(\n  90\n)", 0, tokens...)
}

func TestLexer_07(t *testing.T) {
	var tokens = []Token{
		{COMMENT, source.NewSpan(0, 7), 1, 0},
		{NUMBER, source.NewSpan(7, 8), 2, 3},
		{END_OF, source.NewSpan(8, 8), 2, 4},
	}

	checkLexer(t, "/* \n */1", 0, tokens...)
}

func TestLexerSequence(t *testing.T) {
	rule := Sequence(
		Unit('a'),
		Unit('b'),
		Unit('c'),
	)
	assert.Equal(t, 3, rule([]rune{'a', 'b', 'c', 'c'}))
	assert.Equal(t, 0, rule([]rune{'a', 'c', 'c'}))
	assert.Equal(t, 0, rule([]rune{'a', 'b'}))
}

func TestLexerDelimited(t *testing.T) {
	rule := Delimited([]rune("/*"), []rune("*/"))
	//
	assert.Equal(t, 6, rule([]rune("/*ab*/cd")))
	assert.Equal(t, 0, rule([]rune("ab")))
	// unterminated comments consume everything
	assert.Equal(t, 4, rule([]rune("/*ab")))
}

func TestLexerExcept(t *testing.T) {
	rule := Many(Except(' ', '\n'))
	//
	assert.Equal(t, 3, rule([]rune("abc def")))
	assert.Equal(t, 0, rule([]rune(" abc")))
}

// ==================================================================
// Framework
// ==================================================================

const END_OF uint = 0
const WSPACE uint = 1
const LBRACE uint = 2
const RBRACE uint = 3
const NUMBER uint = 4
const NEWLINE uint = 5
const COMMENT uint = 6

// Rule for describing whitespace
var whitespace Scanner[rune] = Many(Or(Unit(' '), Unit('\t')))

// Rule for describing numbers
var number Scanner[rune] = Many(Within('0', '9'))

// lexing rules
var rules []LexRule[rune] = []LexRule[rune]{
	Rule(Unit('('), LBRACE),
	Rule(Unit(')'), RBRACE),
	Rule(Unit('\n'), NEWLINE),
	Rule(Delimited([]rune("/*"), []rune("*/")), COMMENT),
	Rule(whitespace, WSPACE),
	Rule(number, NUMBER),
	Rule(Eof[rune](), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	items := []rune(input)
	// Construct text lexer
	lexer := NewLexer(items, rules...).TrackLines('\n')
	// Apply lexer
	tokens := lexer.Collect()
	// Keep scanning
	if !slices.Equal(tokens, expected) {
		t.Errorf("got %v, expected %v", tokens, expected)
	} else if lexer.Remaining() != remainder {
		n := len(items) - int(lexer.Remaining())
		t.Errorf("unmatched items: %v", items[n:])
	}
}
