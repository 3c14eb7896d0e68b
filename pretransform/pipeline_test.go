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

package pretransform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/expr/compiler"
	"github.com/dolthub/vegafusion-go/sqldialect"
)

func baseCfg() *compiler.CompilationConfig {
	return &compiler.CompilationConfig{
		Callables: compiler.DefaultCallables(),
		Timezone:  &compiler.TimezoneConfig{Default: "UTC"},
	}
}

func TestApplyPipelineRendersFilterThenAggregate(t *testing.T) {
	require := require.New(t)
	steps := []interface{}{
		map[string]interface{}{"type": "filter", "filter": "datum.x > 0"},
		map[string]interface{}{
			"type": "aggregate", "groupby": []interface{}{"category"},
			"fields": []interface{}{"amount"}, "ops": []interface{}{"sum"}, "as": []interface{}{"total"},
		},
	}
	df := algebra.FromTable("source_0")
	out, err := applyPipeline(df, steps, baseCfg())
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, "WHERE")
	require.Contains(sql, "GROUP BY")
	require.Contains(sql, `AS "total"`)
}

func TestApplyPipelineProjectInsertsSelect(t *testing.T) {
	require := require.New(t)
	steps := []interface{}{
		map[string]interface{}{"type": "project", "fields": []interface{}{"a", "b"}},
	}
	df := algebra.FromTable("source_0")
	out, err := applyPipeline(df, steps, baseCfg())
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, `"a"`)
	require.Contains(sql, `"b"`)
}

func TestApplyPipelineFormulaAddsColumn(t *testing.T) {
	require := require.New(t)
	steps := []interface{}{
		map[string]interface{}{"type": "formula", "expr": "datum.x * 2", "as": "double_x"},
	}
	df := algebra.FromTable("source_0")
	out, err := applyPipeline(df, steps, baseCfg())
	require.NoError(err)
	sql, err := out.ToSQL(sqldialect.Ansi, "cte")
	require.NoError(err)
	require.Contains(sql, `AS "double_x"`)
}

func TestApplyPipelineUnknownTransformIsNoop(t *testing.T) {
	require := require.New(t)
	steps := []interface{}{map[string]interface{}{"type": "not_a_real_transform"}}
	df := algebra.FromTable("source_0")
	out, err := applyPipeline(df, steps, baseCfg())
	require.NoError(err)
	require.Same(df, out)
}
