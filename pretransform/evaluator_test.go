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
	"context"
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/sqldialect"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// fakeConnection is a minimal in-memory Connection stub: FetchURL and
// Query both hand back a fixed one-row, one-column table regardless of
// statement text, which is enough to exercise the Evaluator's dispatch
// and registration bookkeeping without a real query engine.
type fakeConnection struct {
	registered map[string]*table.VegaFusionTable
	queries    []string
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{registered: map[string]*table.VegaFusionTable{}}
}

func (f *fakeConnection) Dialect() sqldialect.SQLDialect { return sqldialect.Ansi }

func (f *fakeConnection) FetchURL(ctx context.Context, tableName, url, format string) (*table.VegaFusionTable, error) {
	tbl := fixedScalarTable(7)
	f.registered[tableName] = tbl
	return tbl, nil
}

func (f *fakeConnection) RegisterTable(ctx context.Context, name string, data *table.VegaFusionTable) error {
	f.registered[name] = data
	return nil
}

func (f *fakeConnection) Query(ctx context.Context, sql string) (*table.VegaFusionTable, error) {
	f.queries = append(f.queries, sql)
	return fixedScalarTable(42), nil
}

func fixedScalarTable(v float64) *table.VegaFusionTable {
	mem := memory.NewGoAllocator()
	b := array.NewFloat64Builder(mem)
	b.Append(v)
	col := b.NewFloat64Array()
	schema := arrow.NewSchema([]arrow.Field{{Name: "value", Type: arrow.PrimitiveTypes.Float64}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{col}, 1)
	tbl, _ := table.New([]arrow.Record{rec})
	return tbl
}

func scopedVar(name string) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Name: name}}
}

func TestEvaluatorEvaluatesUrlDataTask(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	ev := &Evaluator{Conn: conn}

	node := &taskgraph.TaskNode{
		Task: taskgraph.Task{
			Output: scopedVar("source_0"),
			Kind:   taskgraph.KindUrlData,
			Payload: taskgraph.UrlDataPayload{
				URL:    "https://example.test/d.csv",
				Format: "csv",
			},
		},
	}
	v, err := ev.Evaluate(node, nil)
	require.NoError(err)
	require.Equal(taskgraph.ValueTable, v.Kind)
	require.Equal(1, v.Table.NumRows())
}

func TestEvaluatorEvaluatesLiteralTask(t *testing.T) {
	require := require.New(t)
	ev := &Evaluator{Conn: newFakeConnection()}
	node := &taskgraph.TaskNode{
		Task: taskgraph.Task{
			Output:  scopedVar("base"),
			Kind:    taskgraph.KindLiteral,
			Payload: taskgraph.LiteralPayload{Value: 10.0},
		},
	}
	v, err := ev.Evaluate(node, nil)
	require.NoError(err)
	require.Equal(taskgraph.ValueScalar, v.Kind)
	require.Equal(10.0, v.Scalar)
}

func TestEvaluatorEvaluatesSignalTaskUsingCompiledExpr(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	ev := &Evaluator{Conn: conn}

	parsed, err := expr.Parse("base * 2")
	require.NoError(err)

	node := &taskgraph.TaskNode{
		Task: taskgraph.Task{
			Output:  scopedVar("doubled"),
			Inputs:  []chartspec.ScopedVariable{scopedVar("base")},
			Kind:    taskgraph.KindSignal,
			Payload: taskgraph.SignalPayload{CompiledExpr: parsed},
		},
	}
	v, err := ev.Evaluate(node, []taskgraph.TaskValue{taskgraph.NewScalarValue(10.0)})
	require.NoError(err)
	require.Equal(taskgraph.ValueScalar, v.Kind)
	require.Len(conn.queries, 1)
}

func TestEvaluatorEvaluatesScaleTaskWithResolvedDomain(t *testing.T) {
	require := require.New(t)
	ev := &Evaluator{Conn: newFakeConnection()}
	sc := &chartspec.Scale{Name: "xscale", Type: "linear"}
	node := &taskgraph.TaskNode{
		Task: taskgraph.Task{
			Output:  scopedVar("xscale"),
			Inputs:  []chartspec.ScopedVariable{scopedVar("source_0")},
			Kind:    taskgraph.KindScale,
			Payload: taskgraph.ScalePayload{ScaleSpec: sc},
		},
	}
	v, err := ev.Evaluate(node, []taskgraph.TaskValue{taskgraph.NewTableValue(fixedScalarTable(1))})
	require.NoError(err)
	require.Equal(taskgraph.ValueScale, v.Kind)
	require.NotNil(v.Scale.Domain)
}

func TestEvaluatorRejectsUnhandledKind(t *testing.T) {
	require := require.New(t)
	ev := &Evaluator{Conn: newFakeConnection()}
	node := &taskgraph.TaskNode{Task: taskgraph.Task{Kind: taskgraph.Kind(99)}}
	_, err := ev.Evaluate(node, nil)
	require.Error(err)
}
