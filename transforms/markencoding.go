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

package transforms

import (
	"math"

	"github.com/dolthub/vegafusion-go/algebra"
)

// EncodingRule is one already-compiled rule of a §4.5 MarkEncoding
// channel: Test is nil for the tail (default) rule. Value is the
// compiled field/signal/literal expression (or a typed null when
// neither was given and Scale is empty). Offset may itself be a
// nested EncodingRule list's result, since the spec allows offset to
// be a nested encoding.
type EncodingRule struct {
	Test   algebra.Expr
	Value  algebra.Expr
	Scale  string
	Band   *float64
	Mult   algebra.Expr
	Offset algebra.Expr
	Round  bool
}

// ScaleApplier resolves a named scale at compile time: Apply renders
// scale(value); Bandwidth renders the scale's bandwidth() for the
// `band` adjustment.
type ScaleApplier interface {
	Apply(scale string, value algebra.Expr) algebra.Expr
	Bandwidth(scale string) algebra.Expr
}

// BuildEncoding lowers a channel's ordered rule list to a single CASE
// tree, the last rule with no Test acting as the Else arm (§4.5
// MarkEncoding).
func BuildEncoding(rules []EncodingRule, scales ScaleApplier) algebra.Expr {
	var whens []algebra.WhenClause
	var elseExpr algebra.Expr = algebra.NullLiteral(algebra.TypeFloat64)
	for _, rule := range rules {
		v := resolveRuleValue(rule, scales)
		if rule.Test == nil {
			elseExpr = v
			break
		}
		whens = append(whens, algebra.WhenClause{When: rule.Test, Then: v})
	}
	if len(whens) == 0 {
		return elseExpr
	}
	return &algebra.Case{Whens: whens, Else: elseExpr, Typ: algebra.TypeFloat64}
}

func resolveRuleValue(rule EncodingRule, scales ScaleApplier) algebra.Expr {
	v := rule.Value
	if v == nil {
		v = algebra.NullLiteral(algebra.TypeFloat64)
	}
	if rule.Scale != "" {
		v = scales.Apply(rule.Scale, v)
		if rule.Band != nil {
			bandTerm := &algebra.BinaryExpr{
				Op:   algebra.BinMul,
				Left: &algebra.Literal{Value: *rule.Band, Typ: algebra.TypeFloat64},
				Right: scales.Bandwidth(rule.Scale),
				Typ:   algebra.TypeFloat64,
			}
			v = &algebra.BinaryExpr{Op: algebra.BinAdd, Left: v, Right: bandTerm, Typ: algebra.TypeFloat64}
		}
	}
	if rule.Mult != nil {
		v = &algebra.BinaryExpr{Op: algebra.BinMul, Left: v, Right: rule.Mult, Typ: algebra.TypeFloat64}
	}
	if rule.Offset != nil {
		v = &algebra.BinaryExpr{Op: algebra.BinAdd, Left: v, Right: rule.Offset, Typ: algebra.TypeFloat64}
	}
	if rule.Round {
		v = &algebra.FuncCall{Name: "round", Args: []algebra.Expr{v}, Typ: algebra.TypeFloat64}
	}
	return v
}

// IsEncodingRuleSupported implements the §4.5 support predicate: a
// rule is supported only when it does not call format, band is either
// unset or finite-paired-with-a-scale, and (field validity is the
// caller's concern, since this layer no longer holds the raw AST).
func IsEncodingRuleSupported(rule EncodingRule, callsFormat bool) bool {
	if callsFormat {
		return false
	}
	if rule.Band != nil && (rule.Scale == "" || math.IsInf(*rule.Band, 0) || math.IsNaN(*rule.Band)) {
		return false
	}
	return true
}
