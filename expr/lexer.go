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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokKeyword
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

var punctuators = []string{
	"===", "!==", "<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!", "?", ":",
	"(", ")", "[", "]", "{", "}", ",", ".",
}

func tokenize(src string) ([]token, *vferrors.Error) {
	l := &lexer{src: src}
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			l.tokens = append(l.tokens, token{kind: tokEOF, start: l.pos, end: l.pos})
			return l.tokens, nil
		}
		start := l.pos
		c := rune(l.src[l.pos])

		switch {
		case c >= '0' && c <= '9', c == '.' && l.peekDigit():
			tok, err := l.lexNumber()
			if err != nil {
				return nil, err
			}
			l.tokens = append(l.tokens, tok)
		case c == '\'' || c == '"':
			tok, err := l.lexString()
			if err != nil {
				return nil, err
			}
			l.tokens = append(l.tokens, tok)
		case isIdentStart(c):
			l.tokens = append(l.tokens, l.lexIdent())
		default:
			p, ok := l.lexPunct()
			if !ok {
				return nil, vferrors.NewParse(start, "unexpected character %q", c)
			}
			l.tokens = append(l.tokens, p)
		}
	}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) peekDigit() bool {
	if l.pos+1 >= len(l.src) {
		return false
	}
	return l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9'
}

func (l *lexer) lexNumber() (token, *vferrors.Error) {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return token{}, vferrors.NewParse(start, "invalid number literal %q", text)
	}
	return token{kind: tokNumber, text: text, start: start, end: l.pos}, nil
}

func (l *lexer) lexString() (token, *vferrors.Error) {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, vferrors.NewParse(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			b.WriteByte(unescape(l.src[l.pos]))
			l.pos++
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	// text carries the quote char as its first byte so the parser can
	// recover original quoting for the pretty-printer.
	return token{kind: tokString, text: string(quote) + b.String(), start: start, end: l.pos}, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (l *lexer) lexIdent() token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	text := l.src[start:l.pos]
	switch text {
	case "true", "false", "null":
		return token{kind: tokKeyword, text: text, start: start, end: l.pos}
	default:
		return token{kind: tokIdent, text: text, start: start, end: l.pos}
	}
}

func (l *lexer) lexPunct() (token, bool) {
	for _, p := range punctuators {
		if strings.HasPrefix(l.src[l.pos:], p) {
			start := l.pos
			l.pos += len(p)
			return token{kind: tokPunct, text: p, start: start, end: l.pos}, true
		}
	}
	return token{}, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
