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

func TestAggregateOnGroupsAndAliasesPositionally(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := AggregateOn(df, []string{"category"}, []AggregateOp{
		{Op: algebra.AggCount, As: "count_0"},
		{Field: "amount", Op: algebra.AggSum, As: "total_amount"},
	})
	require.NoError(err)

	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, `"category"`)
	require.Contains(sql, "count(*)")
	require.Contains(sql, `AS "count_0"`)
	require.Contains(sql, "sum(")
	require.Contains(sql, `AS "total_amount"`)
	require.Contains(sql, "GROUP BY")
}

func TestAggregateOnCountNeedsNoField(t *testing.T) {
	require := require.New(t)
	_, err := buildAggExpr(AggregateOp{Op: algebra.AggCount, As: "n"})
	require.NoError(err)
}

func TestAggregateOnNonCountRequiresField(t *testing.T) {
	require := require.New(t)
	_, err := buildAggExpr(AggregateOp{Op: algebra.AggSum, As: "total"})
	require.Error(err)
}

func TestAggregateOnMissingOpIsError(t *testing.T) {
	require := require.New(t)
	_, err := buildAggExpr(AggregateOp{Field: "amount", As: "total"})
	require.Error(err)
}

func TestAggregateOnZeroGroupFieldsIsGlobalAggregate(t *testing.T) {
	require := require.New(t)
	df := algebra.FromTable("source_0")
	out, err := AggregateOn(df, nil, []AggregateOp{{Op: algebra.AggValid, Field: "amount", As: "valid_count"}})
	require.NoError(err)

	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.NotContains(sql, "GROUP BY")
	require.Contains(sql, "count(")
}

func TestAggregateOnQuantileOpsLowerToFloat(t *testing.T) {
	require := require.New(t)
	for _, op := range []algebra.AggKind{algebra.AggMedian, algebra.AggQ1, algebra.AggQ3} {
		agg, err := buildAggExpr(AggregateOp{Field: "amount", Op: op, As: "q"})
		require.NoError(err)
		require.Equal(algebra.TypeFloat64, agg.Typ)
	}
}
