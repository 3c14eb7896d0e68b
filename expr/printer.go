// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Precedence levels, matching the parser's grammar (higher binds
// tighter). Member/call access sits at precMember: a MemberExpr's
// object or a CallExpr's callee is printed in parentheses whenever it
// binds looser than that (e.g. `(a+b).c`).
const (
	precTernary = 1
	precOr      = 2
	precAnd     = 3
	precEquality = 4
	precComparison = 5
	precAdditive = 6
	precMultiplicative = 7
	precUnary   = 8
	precMember  = 9
)

// Print renders node back into source text such that Parse(Print(node))
// produces a structurally equivalent AST (§8 property 1). Parentheses
// are inserted whenever a child's precedence is lower than the
// position it's printed in requires.
func Print(node Node) string {
	var b strings.Builder
	print(&b, node, 0)
	return b.String()
}

func precedenceOf(n Node) int {
	switch v := n.(type) {
	case *ConditionalExpr:
		return precTernary
	case *LogicalExpr:
		if v.Op == LogicalOr {
			return precOr
		}
		return precAnd
	case *BinaryExpr:
		switch v.Op {
		case OpEq, OpStrictEq, OpNeq, OpStrictNe:
			return precEquality
		case OpLt, OpLe, OpGt, OpGe:
			return precComparison
		case OpAdd, OpSub:
			return precAdditive
		case OpMul, OpDiv, OpMod:
			return precMultiplicative
		}
	case *UnaryExpr:
		return precUnary
	case *MemberExpr, *CallExpr:
		return precMember
	}
	// Literals, identifiers, array/object literals are atoms: highest
	// effective precedence, never need wrapping.
	return precMember + 1
}

func print(b *strings.Builder, n Node, minPrec int) {
	prec := precedenceOf(n)
	needParens := prec < minPrec
	if needParens {
		b.WriteByte('(')
	}
	switch v := n.(type) {
	case *NumberLiteral:
		b.WriteString(formatNumber(v.Value))
	case *StringLiteral:
		b.WriteByte(v.Quote)
		b.WriteString(v.Value)
		b.WriteByte(v.Quote)
	case *BoolLiteral:
		if v.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *NullLiteral:
		b.WriteString("null")
	case *Identifier:
		b.WriteString(v.Name)
	case *UnaryExpr:
		b.WriteString(string(v.Op))
		print(b, v.Operand, precUnary)
	case *BinaryExpr:
		// Left-associative: left operand may be the same precedence,
		// right operand must be strictly higher.
		print(b, v.Left, prec)
		b.WriteString(string(v.Op))
		print(b, v.Right, prec+1)
	case *LogicalExpr:
		print(b, v.Left, prec)
		b.WriteString(string(v.Op))
		print(b, v.Right, prec+1)
	case *ConditionalExpr:
		// Right-associative: Test binds at precOr (it may be a bare
		// logical-or but not a bare ternary without parens);
		// Consequent/Alternate may recurse into further ternaries.
		print(b, v.Test, precOr)
		b.WriteString("?")
		print(b, v.Consequent, precTernary)
		b.WriteString(":")
		print(b, v.Alternate, precTernary)
	case *ArrayExpr:
		b.WriteByte('[')
		for i, e := range v.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			print(b, e, precTernary)
		}
		b.WriteByte(']')
	case *ObjectExpr:
		b.WriteByte('{')
		for i, p := range v.Properties {
			if i > 0 {
				b.WriteByte(',')
			}
			print(b, p.Key, precMember+1)
			b.WriteByte(':')
			print(b, p.Value, precTernary)
		}
		b.WriteByte('}')
	case *MemberExpr:
		print(b, v.Object, precMember)
		if v.Computed {
			b.WriteByte('[')
			print(b, v.Property, precTernary)
			b.WriteByte(']')
		} else {
			b.WriteByte('.')
			print(b, v.Property, precMember)
		}
	case *CallExpr:
		print(b, v.Callee, precMember)
		b.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			print(b, a, precTernary)
		}
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("expr: unknown node type %T", n))
	}
	if needParens {
		b.WriteByte(')')
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
