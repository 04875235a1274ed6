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
	"encoding/json"
	"fmt"
)

// Op identifies the operation performed by an expression node.  This includes
// the operations which head statements (e.g. assignments and conditionals),
// since every statement owns exactly one expression tree.
type Op uint

const (
	// STATIC is a constant value (e.g. 4'b1010).
	STATIC Op = iota
	// SIG is a reference to a declared signal.
	SIG
	// PARAM is a reference to a parameter.
	PARAM
	// SBIT is a single-element select (e.g. a[i]).  Left holds the index.
	SBIT
	// MBIT is a fixed part select (e.g. a[7:4]).  Left holds the msb and Right
	// the lsb.
	MBIT
	// MBIT_POS is a variable part select in the positive direction (e.g.
	// a[i+:4]).  Left holds the base and Right the width.
	MBIT_POS
	// MBIT_NEG is a variable part select in the negative direction (e.g.
	// a[i-:4]).  Left holds the base and Right the width.
	MBIT_NEG
	// DIM chains the selects of a multi-dimensional access (e.g. m[i][j]).
	// Left holds the outer select and Right the remaining selects.
	DIM
	// ADD is addition.
	ADD
	// SUB is subtraction.
	SUB
	// MUL is multiplication.
	MUL
	// DIV is division.
	DIV
	// MOD is modulus.
	MOD
	// AND is bitwise and.
	AND
	// OR is bitwise or.
	OR
	// XOR is bitwise exclusive or.
	XOR
	// XNOR is bitwise exclusive nor.
	XNOR
	// NAND is bitwise nand.
	NAND
	// NOR is bitwise nor.
	NOR
	// LT is less than.
	LT
	// GT is greater than.
	GT
	// LE is less than or equal.
	LE
	// GE is greater than or equal.
	GE
	// EQ is logical equality.
	EQ
	// NE is logical inequality.
	NE
	// CEQ is case equality.
	CEQ
	// CNE is case inequality.
	CNE
	// LAND is logical and.
	LAND
	// LOR is logical or.
	LOR
	// LSHIFT is logical shift left.
	LSHIFT
	// RSHIFT is logical shift right.
	RSHIFT
	// ALSHIFT is arithmetic shift left.
	ALSHIFT
	// ARSHIFT is arithmetic shift right.
	ARSHIFT
	// UINV is bitwise inversion.  Unary operators hold their operand in Left.
	UINV
	// UAND is and reduction.
	UAND
	// UOR is or reduction.
	UOR
	// UXOR is xor reduction.
	UXOR
	// UNAND is nand reduction.
	UNAND
	// UNOR is nor reduction.
	UNOR
	// UNXOR is xnor reduction.
	UNXOR
	// UNOT is logical negation.
	UNOT
	// NEGATE is arithmetic negation.
	NEGATE
	// COND is the conditional operator.  Left holds the condition and Right
	// a COLON node.
	COND
	// COLON holds the two alternatives of a conditional.
	COLON
	// CONCAT is a concatenation.  Left holds the (LIST of) members.
	CONCAT
	// LIST separates the elements of concatenations and argument lists.
	LIST
	// EXPAND is a replication (e.g. {4{a}}).  Left holds the count and Right
	// the replicated CONCAT.
	EXPAND
	// FUNCCALL is a call to a user-defined function.  Left holds the arguments.
	FUNCCALL
	// SYSCALL is a call to a system function (e.g. $random).
	SYSCALL
	// PEDGE is a positive edge event.
	PEDGE
	// NEDGE is a negative edge event.
	NEDGE
	// AEDGE is an any-change event.
	AEDGE
	// EOR combines two events.
	EOR
	// DELAY is a delay control.  Left holds the delay value.
	DELAY
	// BASSIGN is a blocking assignment.  Left holds the target and Right the
	// value.
	BASSIGN
	// NASSIGN is a non-blocking assignment.
	NASSIGN
	// ASSIGN is a continuous assignment.
	ASSIGN
	// IF is a conditional statement.  Left holds the condition.
	IF
	// WHILE is a while (or for) loop.  Left holds the condition.
	WHILE
	// REPEAT is a repeat loop.  Left holds the count.
	REPEAT
	// CASE is one item of a case statement.  Left holds the case expression
	// (shared between all items) and Right the item expression.
	CASE
	// CASEX is one item of a casex statement.
	CASEX
	// CASEZ is one item of a casez statement.
	CASEZ
	// DEFAULT is the default item of a case statement.
	DEFAULT
	// TASKCALL is a call to a (user or system) task.  Left holds the arguments.
	TASKCALL
)

// Category groups operations by the shape of coverage they can carry.
type Category uint

const (
	// LEAF operations have no children.
	LEAF Category = iota
	// SELECT operations access part of a signal.
	SELECT
	// BINARY operations combine two operands.
	BINARY
	// UNARY operations act on a single operand.
	UNARY
	// EVENT operations wait for a change.
	EVENT
	// OTHER covers the remaining expression operations.
	OTHER
	// STATEMENT operations head statements.
	STATEMENT
)

type opInfo struct {
	name     string
	symbol   string
	category Category
}

var ops = []opInfo{
	STATIC:   {"static", "", LEAF},
	SIG:      {"sig", "", LEAF},
	PARAM:    {"param", "", LEAF},
	SBIT:     {"sbit", "", SELECT},
	MBIT:     {"mbit", ":", SELECT},
	MBIT_POS: {"mbit_pos", "+:", SELECT},
	MBIT_NEG: {"mbit_neg", "-:", SELECT},
	DIM:      {"dim", "", SELECT},
	ADD:      {"add", "+", BINARY},
	SUB:      {"sub", "-", BINARY},
	MUL:      {"mul", "*", BINARY},
	DIV:      {"div", "/", BINARY},
	MOD:      {"mod", "%", BINARY},
	AND:      {"and", "&", BINARY},
	OR:       {"or", "|", BINARY},
	XOR:      {"xor", "^", BINARY},
	XNOR:     {"xnor", "~^", BINARY},
	NAND:     {"nand", "~&", BINARY},
	NOR:      {"nor", "~|", BINARY},
	LT:       {"lt", "<", BINARY},
	GT:       {"gt", ">", BINARY},
	LE:       {"le", "<=", BINARY},
	GE:       {"ge", ">=", BINARY},
	EQ:       {"eq", "==", BINARY},
	NE:       {"ne", "!=", BINARY},
	CEQ:      {"ceq", "===", BINARY},
	CNE:      {"cne", "!==", BINARY},
	LAND:     {"land", "&&", BINARY},
	LOR:      {"lor", "||", BINARY},
	LSHIFT:   {"lshift", "<<", BINARY},
	RSHIFT:   {"rshift", ">>", BINARY},
	ALSHIFT:  {"alshift", "<<<", BINARY},
	ARSHIFT:  {"arshift", ">>>", BINARY},
	UINV:     {"uinv", "~", UNARY},
	UAND:     {"uand", "&", UNARY},
	UOR:      {"uor", "|", UNARY},
	UXOR:     {"uxor", "^", UNARY},
	UNAND:    {"unand", "~&", UNARY},
	UNOR:     {"unor", "~|", UNARY},
	UNXOR:    {"unxor", "~^", UNARY},
	UNOT:     {"unot", "!", UNARY},
	NEGATE:   {"negate", "-", UNARY},
	COND:     {"cond", "?", OTHER},
	COLON:    {"colon", ":", OTHER},
	CONCAT:   {"concat", "", OTHER},
	LIST:     {"list", ",", OTHER},
	EXPAND:   {"expand", "", OTHER},
	FUNCCALL: {"funccall", "", OTHER},
	SYSCALL:  {"syscall", "", OTHER},
	PEDGE:    {"pedge", "posedge", EVENT},
	NEDGE:    {"nedge", "negedge", EVENT},
	AEDGE:    {"aedge", "", EVENT},
	EOR:      {"eor", "or", EVENT},
	DELAY:    {"delay", "#", STATEMENT},
	BASSIGN:  {"bassign", "=", STATEMENT},
	NASSIGN:  {"nassign", "<=", STATEMENT},
	ASSIGN:   {"assign", "=", STATEMENT},
	IF:       {"if", "", STATEMENT},
	WHILE:    {"while", "", STATEMENT},
	REPEAT:   {"repeat", "", STATEMENT},
	CASE:     {"case", "", STATEMENT},
	CASEX:    {"casex", "", STATEMENT},
	CASEZ:    {"casez", "", STATEMENT},
	DEFAULT:  {"default", "", STATEMENT},
	TASKCALL: {"taskcall", "", STATEMENT},
}

// ParseOp returns the operation with the given (JSON) name.
func ParseOp(name string) (Op, bool) {
	for i, info := range ops {
		if info.name == name {
			return Op(i), true
		}
	}
	//
	return 0, false
}

// Category returns the category of this operation.
func (op Op) Category() Category {
	return ops[op].category
}

// Symbol returns the operator as it is written in source (where applicable).
func (op Op) Symbol() string {
	return ops[op].symbol
}

// IsAssignment checks whether this operation heads an assignment.
func (op Op) IsAssignment() bool {
	return op == BASSIGN || op == NASSIGN || op == ASSIGN
}

// IsCaseItem checks whether this operation heads a case item.
func (op Op) IsCaseItem() bool {
	return op == CASE || op == CASEX || op == CASEZ || op == DEFAULT
}

// IsRelational checks whether this operation produces a single-bit result.
func (op Op) IsRelational() bool {
	switch op {
	case LT, GT, LE, GE, EQ, NE, CEQ, CNE, LAND, LOR:
		return true
	case UAND, UOR, UXOR, UNAND, UNOR, UNXOR, UNOT:
		return true
	}
	//
	return false
}

func (op Op) String() string {
	if int(op) < len(ops) {
		return ops[op].name
	}
	//
	return fmt.Sprintf("op(%d)", uint(op))
}

// MarshalJSON writes an operation using its name.
func (op Op) MarshalJSON() ([]byte, error) {
	return json.Marshal(op.String())
}

// UnmarshalJSON reads an operation from its name.
func (op *Op) UnmarshalJSON(bytes []byte) error {
	var name string
	//
	if err := json.Unmarshal(bytes, &name); err != nil {
		return err
	} else if o, ok := ParseOp(name); ok {
		*op = o
		return nil
	}
	//
	return fmt.Errorf("unknown operation %q", name)
}
