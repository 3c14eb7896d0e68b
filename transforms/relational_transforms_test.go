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

func TestJoinAggregateOnWindowsWithoutCollapsingRows(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := JoinAggregateOn(df, []string{"category"}, []AggregateOp{{Field: "amount", Op: algebra.AggSum, As: "total"}})
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "OVER")
	require.Contains(sql, "PARTITION BY")
	require.NotContains(sql, "GROUP BY")
}

func TestStackOnZeroOffsetProducesY0AndY1(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out := StackOn(df, []string{"category"}, "order", "amount", StackZero, "y0", "y1")
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, `AS "y0"`)
	require.Contains(sql, `AS "y1"`)
}

func TestStackOnNormalizeDividesByGroupTotal(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out := StackOn(df, []string{"category"}, "order", "amount", StackNormalize, "y0", "y1")
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, stackTotalColumn)
}

func TestWindowOnSharesPartitionAcrossOps(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out := WindowOn(df, []string{"category"}, []SortField{{Field: "order"}}, []WindowOp{
		{Op: "row_number", As: "rank"},
		{Op: "lag", Field: "amount", As: "prev_amount"},
	})
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "row_number")
	require.Contains(sql, "lag")
}

func TestLookupOnLeftJoinsAndAliasesFields(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	secondary := algebra.FromTable("lookup_table")
	out := LookupOn(df, "id", secondary, "id", []string{"name"}, []string{"lookup_name"})
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "LEFT JOIN")
	require.Contains(sql, `AS "lookup_name"`)
}

func TestImputeOnCrossesDomainsAndCoalesces(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out := ImputeOn(df, "amount", "x", []string{"category"}, 0)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "coalesce")
	require.Contains(sql, "LEFT JOIN")
}

func TestPivotOnDefaultsToSumAndOneColumnPerKeyValue(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out := PivotOn(df, []string{"year"}, "category", "amount", []string{"a", "b"}, "")
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, `AS "a"`)
	require.Contains(sql, `AS "b"`)
	require.Contains(sql, "sum(")
}
