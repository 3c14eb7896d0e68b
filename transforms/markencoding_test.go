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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/sqldialect"
)

type fakeScales struct{}

func (fakeScales) Apply(scale string, value algebra.Expr) algebra.Expr {
	return &algebra.FuncCall{Name: "scale_" + scale, Args: []algebra.Expr{value}, Typ: algebra.TypeFloat64}
}

func (fakeScales) Bandwidth(scale string) algebra.Expr {
	return &algebra.FuncCall{Name: "bandwidth_" + scale, Typ: algebra.TypeFloat64}
}

func renderExprSQL(t *testing.T, e algebra.Expr) string {
	t.Helper()
	s, err := sqldialect.Ansi.RenderExpr(e)
	require.NoError(t, err)
	return s
}

func TestBuildEncodingFallsThroughToDefaultWhenNoTestMatches(t *testing.T) {
	require := require.New(t)
	rules := []EncodingRule{
		{Value: &algebra.Literal{Value: 1.0, Typ: algebra.TypeFloat64}},
	}
	e := BuildEncoding(rules, fakeScales{})
	require.IsType(&algebra.Literal{}, e)
}

func TestBuildEncodingAppliesScaleAndBand(t *testing.T) {
	require := require.New(t)
	band := 0.5
	rules := []EncodingRule{
		{Value: &algebra.ColumnRef{Name: "x", Typ: algebra.TypeFloat64}, Scale: "xscale", Band: &band},
	}
	e := BuildEncoding(rules, fakeScales{})
	sql := renderExprSQL(t, e)
	require.Contains(sql, "scale_xscale")
	require.Contains(sql, "bandwidth_xscale")
}

func TestBuildEncodingAppliesMultOffsetRound(t *testing.T) {
	require := require.New(t)
	rules := []EncodingRule{
		{
			Value: &algebra.ColumnRef{Name: "x", Typ: algebra.TypeFloat64},
			Mult:  &algebra.Literal{Value: 2.0, Typ: algebra.TypeFloat64},
			Offset: &algebra.Literal{Value: 1.0, Typ: algebra.TypeFloat64},
			Round: true,
		},
	}
	e := BuildEncoding(rules, fakeScales{})
	sql := renderExprSQL(t, e)
	require.Contains(sql, "round(")
}

func TestBuildEncodingFirstMatchingTestWins(t *testing.T) {
	require := require.New(t)
	test1 := &algebra.Literal{Value: true, Typ: algebra.TypeBool}
	rules := []EncodingRule{
		{Test: test1, Value: &algebra.Literal{Value: 1.0, Typ: algebra.TypeFloat64}},
		{Value: &algebra.Literal{Value: 2.0, Typ: algebra.TypeFloat64}},
	}
	e := BuildEncoding(rules, fakeScales{})
	c, ok := e.(*algebra.Case)
	require.True(ok)
	require.Len(c.Whens, 1)
}

func TestIsEncodingRuleSupportedRejectsFormatCall(t *testing.T) {
	require := require.New(t)
	require.False(IsEncodingRuleSupported(EncodingRule{}, true))
}

func TestIsEncodingRuleSupportedRejectsBandWithoutScale(t *testing.T) {
	require := require.New(t)
	band := 1.0
	require.False(IsEncodingRuleSupported(EncodingRule{Band: &band}, false))
}

func TestIsEncodingRuleSupportedAllowsBandWithScale(t *testing.T) {
	require := require.New(t)
	band := 1.0
	require.True(IsEncodingRuleSupported(EncodingRule{Band: &band, Scale: "x"}, false))
}
