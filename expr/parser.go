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
	"strconv"

	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// parser is a precedence-climbing (Pratt) recursive-descent parser.
// Precedence, low to high: ternary < logical-or < logical-and <
// equality < comparison < additive < multiplicative < unary < member/call.
// Static member access (.prop) binds its property at a higher minimum
// binding power than any binary operator, so `a.b+c.d` parses as
// `(a.b)+(c.d)`; ternary and static member are the two right-associative
// constructs.
type parser struct {
	toks []token
	pos  int
	src  string
}

// Parse parses text as a single expression. A trailing unconsumed
// token, or empty input, is a ParseError.
func Parse(text string) (Node, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: text}
	if p.cur().kind == tokEOF {
		return nil, vferrors.NewParse(0, "empty input")
	}
	n, perr := p.parseTernary()
	if perr != nil {
		return nil, perr
	}
	if p.cur().kind != tokEOF {
		return nil, vferrors.NewParse(p.cur().start, "unexpected trailing token %q", p.cur().text)
	}
	return n, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(s string) bool {
	return p.cur().kind == tokPunct && p.cur().text == s
}

func (p *parser) expectPunct(s string) *vferrors.Error {
	if !p.isPunct(s) {
		return vferrors.NewParse(p.cur().start, "expected %q, found %q", s, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *parser) parseTernary() (Node, *vferrors.Error) {
	test, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.isPunct("?") {
		return test, nil
	}
	p.advance()
	cons, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	alt, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ConditionalExpr{
		base:       base{Span{test.Span().Start, alt.Span().End}},
		Test:       test,
		Consequent: cons,
		Alternate:  alt,
	}, nil
}

func (p *parser) parseLogicalOr() (Node, *vferrors.Error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: LogicalOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseLogicalAnd() (Node, *vferrors.Error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: LogicalAnd, Left: left, Right: right}
	}
	return left, nil
}

var equalityOps = map[string]BinaryOp{"==": OpEq, "===": OpStrictEq, "!=": OpNeq, "!==": OpStrictNe}
var comparisonOps = map[string]BinaryOp{"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe}
var additiveOps = map[string]BinaryOp{"+": OpAdd, "-": OpSub}
var multiplicativeOps = map[string]BinaryOp{"*": OpMul, "/": OpDiv, "%": OpMod}

func (p *parser) parseEquality() (Node, *vferrors.Error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.cur().text]
		if p.cur().kind != tokPunct || !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseComparison() (Node, *vferrors.Error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().text]
		if p.cur().kind != tokPunct || !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (Node, *vferrors.Error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.cur().text]
		if p.cur().kind != tokPunct || !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Node, *vferrors.Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur().text]
		if p.cur().kind != tokPunct || !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{base: base{Span{left.Span().Start, right.Span().End}}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Node, *vferrors.Error) {
	if p.cur().kind == tokPunct {
		var op UnaryOp
		switch p.cur().text {
		case "+":
			op = UnaryPlus
		case "-":
			op = UnaryMinus
		case "!":
			op = UnaryNot
		}
		if op != "" {
			start := p.cur().start
			p.advance()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{base: base{Span{start, operand.Span().End}}, Op: op, Operand: operand}, nil
		}
	}
	return p.parsePostfix()
}

// parsePostfix consumes member access and calls at the highest
// effective binding power: `.prop`, `[expr]`, and `(args)` chain
// left-associatively directly on the primary expression.
func (p *parser) parsePostfix() (Node, *vferrors.Error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			if p.cur().kind != tokIdent && p.cur().kind != tokKeyword {
				return nil, vferrors.NewParse(p.cur().start, "expected property name after '.', found %q", p.cur().text)
			}
			propTok := p.advance()
			prop := &Identifier{base: base{Span{propTok.start, propTok.end}}, Name: propTok.text}
			node = &MemberExpr{base: base{Span{node.Span().Start, prop.Span().End}}, Object: node, Property: prop, Computed: false}
		case p.isPunct("["):
			p.advance()
			idx, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			end := p.cur().end
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			node = &MemberExpr{base: base{Span{node.Span().Start, end}}, Object: node, Property: idx, Computed: true}
		case p.isPunct("("):
			args, end, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			node = &CallExpr{base: base{Span{node.Span().Start, end}}, Callee: node, Args: args}
		default:
			return node, nil
		}
	}
}

func (p *parser) parseArgList() ([]Node, int, *vferrors.Error) {
	if err := p.expectPunct("("); err != nil {
		return nil, 0, err
	}
	var args []Node
	for !p.isPunct(")") {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().end
	if err := p.expectPunct(")"); err != nil {
		return nil, 0, err
	}
	return args, end, nil
}

func (p *parser) parsePrimary() (Node, *vferrors.Error) {
	tok := p.cur()
	switch {
	case tok.kind == tokNumber:
		p.advance()
		v, _ := strconv.ParseFloat(tok.text, 64)
		return &NumberLiteral{base: base{Span{tok.start, tok.end}}, Value: v, Raw: tok.text}, nil
	case tok.kind == tokString:
		p.advance()
		return &StringLiteral{base: base{Span{tok.start, tok.end}}, Value: tok.text[1:], Quote: tok.text[0]}, nil
	case tok.kind == tokKeyword:
		p.advance()
		switch tok.text {
		case "true":
			return &BoolLiteral{base: base{Span{tok.start, tok.end}}, Value: true}, nil
		case "false":
			return &BoolLiteral{base: base{Span{tok.start, tok.end}}, Value: false}, nil
		case "null":
			return &NullLiteral{base: base{Span{tok.start, tok.end}}}, nil
		}
	case tok.kind == tokIdent:
		p.advance()
		return &Identifier{base: base{Span{tok.start, tok.end}}, Name: tok.text}, nil
	case p.isPunct("("):
		p.advance()
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case p.isPunct("["):
		return p.parseArray()
	case p.isPunct("{"):
		return p.parseObject()
	}
	return nil, vferrors.NewParse(tok.start, "unexpected token %q", tok.text)
}

func (p *parser) parseArray() (Node, *vferrors.Error) {
	start := p.cur().start
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	var elems []Node
	for !p.isPunct("]") {
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().end
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return &ArrayExpr{base: base{Span{start, end}}, Elements: elems}, nil
}

func (p *parser) parseObject() (Node, *vferrors.Error) {
	start := p.cur().start
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var props []Property
	for !p.isPunct("}") {
		var key Node
		switch {
		case p.cur().kind == tokIdent || p.cur().kind == tokKeyword:
			kt := p.advance()
			key = &Identifier{base: base{Span{kt.start, kt.end}}, Name: kt.text}
		case p.cur().kind == tokString:
			kt := p.advance()
			key = &StringLiteral{base: base{Span{kt.start, kt.end}}, Value: kt.text[1:], Quote: kt.text[0]}
		case p.cur().kind == tokNumber:
			kt := p.advance()
			v, _ := strconv.ParseFloat(kt.text, 64)
			key = &NumberLiteral{base: base{Span{kt.start, kt.end}}, Value: v, Raw: kt.text}
		default:
			return nil, vferrors.NewParse(p.cur().start, "expected object key, found %q", p.cur().text)
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Key: key, Value: val})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().end
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ObjectExpr{base: base{Span{start, end}}, Properties: props}, nil
}
