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

package sqldialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/algebra"
)

func tzCall(name string, args ...algebra.Expr) *algebra.FuncCall {
	return &algebra.FuncCall{Name: name, Args: args, Typ: algebra.TypeTimestamp}
}

func strLit(s string) *algebra.Literal { return &algebra.Literal{Value: s, Typ: algebra.TypeUtf8} }

func colRef(name string) *algebra.ColumnRef { return &algebra.ColumnRef{Name: name, Typ: algebra.TypeTimestamp} }

func TestEveryDialectSupportsAllSixTzFamilies(t *testing.T) {
	require := require.New(t)
	for name, d := range All {
		for _, fam := range tzFamilyNames {
			_, ok := d.Transformers[fam]
			require.True(ok, "dialect %s missing transformer for %s", name, fam)
		}
	}
}

func TestUTCTimezoneOmitsRoundTrip(t *testing.T) {
	require := require.New(t)
	for name, d := range All {
		call := tzCall("date_part_tz", strLit("hour"), colRef("ts"), strLit("UTC"))
		sql, err := d.RenderFuncCall(call)
		require.NoError(err, "dialect %s", name)
		// When the target zone is UTC, no timezone-conversion function
		// name should appear in the rendered SQL.
		lower := strings.ToLower(sql)
		require.NotContains(lower, "convert_timezone", name)
		require.NotContains(lower, "from_utc_timestamp", name)
		require.NotContains(lower, "totimezone", name)
		require.NotContains(lower, "at time zone", name)
	}
}

func TestNonUTCTimezonePerformsRoundTrip(t *testing.T) {
	require := require.New(t)
	call := tzCall("date_part_tz", strLit("hour"), colRef("ts"), strLit("America/New_York"))
	sql, err := Postgres.RenderFuncCall(call)
	require.NoError(err)
	require.Contains(strings.ToLower(sql), "at time zone")
}

func TestRenderExprStringConcatUsesConcatOperator(t *testing.T) {
	require := require.New(t)
	expr := &algebra.BinaryExpr{
		Op:    algebra.BinAdd,
		Left:  &algebra.Literal{Value: "a", Typ: algebra.TypeUtf8},
		Right: &algebra.Literal{Value: "b", Typ: algebra.TypeUtf8},
		Typ:   algebra.TypeUtf8,
	}
	sql, err := Ansi.RenderExpr(expr)
	require.NoError(err)
	require.Contains(sql, "||")
}

func TestQuoteIdentEscapesEmbeddedQuote(t *testing.T) {
	require := require.New(t)
	require.Equal(`"a""b"`, Ansi.QuoteIdent(`a"b`))
	require.Equal("`a``b`", Databricks.QuoteIdent("a`b"))
}

func TestRenderFuncCallFallsBackForUnregisteredName(t *testing.T) {
	require := require.New(t)
	call := &algebra.FuncCall{Name: "length", Args: []algebra.Expr{colRef("s")}, Typ: algebra.TypeInt64}
	sql, err := Ansi.RenderFuncCall(call)
	require.NoError(err)
	require.Equal(`length("s")`, sql)
}
