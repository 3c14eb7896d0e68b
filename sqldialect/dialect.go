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

// Package sqldialect implements §4.4's dialect layer: per-engine
// identifier quoting, scalar type support, and FunctionTransformers
// for the logical timezone-aware call families every dialect must
// support.
package sqldialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// FunctionTransformer rewrites a logical call (e.g. "date_part_tz")
// into dialect-specific SQL text, given its already-rendered
// arguments.
type FunctionTransformer interface {
	Transform(d *Dialect, args []algebra.Expr) (string, error)
}

// Dialect is a named SQL rendering strategy: identifier quoting, a
// type-support set, and the logical-call transformer table (§4.4).
type Dialect struct {
	Name            string
	IdentQuote      byte
	SupportedScalar map[algebra.DataType]bool
	Transformers    map[string]FunctionTransformer
}

var _ algebra.SQLDialect = (*Dialect)(nil)

func (d *Dialect) QuoteIdent(name string) string {
	q := string(d.IdentQuote)
	escaped := strings.ReplaceAll(name, q, q+q)
	return q + escaped + q
}

// RenderExpr renders an algebra.Expr tree to SQL text in this
// dialect.
func (d *Dialect) RenderExpr(e algebra.Expr) (string, error) {
	switch v := e.(type) {
	case nil:
		return "NULL", nil
	case *algebra.ColumnRef:
		if v.Table != "" {
			return d.QuoteIdent(v.Table) + "." + d.QuoteIdent(v.Name), nil
		}
		return d.QuoteIdent(v.Name), nil
	case *algebra.Literal:
		return d.renderLiteral(v)
	case *algebra.BinaryExpr:
		left, err := d.RenderExpr(v.Left)
		if err != nil {
			return "", err
		}
		right, err := d.RenderExpr(v.Right)
		if err != nil {
			return "", err
		}
		op := string(v.Op)
		if v.Op == algebra.BinAdd && (v.Left.Type() == algebra.TypeUtf8 || v.Right.Type() == algebra.TypeUtf8) {
			op = string(algebra.BinConcat)
		}
		return fmt.Sprintf("(%s %s %s)", left, op, right), nil
	case *algebra.UnaryExpr:
		operand, err := d.RenderExpr(v.Operand)
		if err != nil {
			return "", err
		}
		if v.Op == algebra.UnNot {
			return fmt.Sprintf("(not %s)", operand), nil
		}
		return fmt.Sprintf("(%s%s)", string(v.Op), operand), nil
	case *algebra.Case:
		return d.renderCase(v)
	case *algebra.FuncCall:
		return d.RenderFuncCall(v)
	case *algebra.FieldAccess:
		s, err := d.RenderExpr(v.Struct)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.%s", s, d.QuoteIdent(v.Field)), nil
	case *algebra.IndexAccess:
		l, err := d.RenderExpr(v.List)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", l, v.Index), nil
	default:
		return "", vferrors.NewInternal(fmt.Sprintf("sqldialect: unrenderable expr type %T", e))
	}
}

func (d *Dialect) renderLiteral(l *algebra.Literal) (string, error) {
	if l.Value == nil {
		return "NULL", nil
	}
	switch v := l.Value.(type) {
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	default:
		return "", vferrors.NewInternal(fmt.Sprintf("sqldialect: unrenderable literal value %T", v))
	}
}

func (d *Dialect) renderCase(c *algebra.Case) (string, error) {
	var b strings.Builder
	b.WriteString("CASE")
	for _, w := range c.Whens {
		when, err := d.RenderExpr(w.When)
		if err != nil {
			return "", err
		}
		then, err := d.RenderExpr(w.Then)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf(" WHEN %s THEN %s", when, then))
	}
	if c.Else != nil {
		els, err := d.RenderExpr(c.Else)
		if err != nil {
			return "", err
		}
		b.WriteString(" ELSE " + els)
	}
	b.WriteString(" END")
	return b.String(), nil
}

// RenderFuncCall renders a call, dispatching through the logical-call
// transformer table when one is registered for f.Name, otherwise
// falling back to the call's own name as a plain SQL function.
func (d *Dialect) RenderFuncCall(f *algebra.FuncCall) (string, error) {
	if t, ok := d.Transformers[f.Name]; ok {
		return t.Transform(d, f.Args)
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		s, err := d.RenderExpr(a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ", ")), nil
}
