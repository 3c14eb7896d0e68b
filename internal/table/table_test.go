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

package table

import (
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/stretchr/testify/require"
)

func buildTestTable(t *testing.T, values []float64) *VegaFusionTable {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	bldr := array.NewFloat64Builder(mem)
	bldr.AppendValues(values, nil)
	col := bldr.NewFloat64Array()

	rec := array.NewRecord(schema, []arrow.Array{col}, int64(len(values)))
	tbl, err := New([]arrow.Record{rec})
	require.NoError(t, err)
	return tbl
}

func TestIPCRoundTripPreservesSchemaRowCountAndValues(t *testing.T) {
	require := require.New(t)
	tbl := buildTestTable(t, []float64{1, 2, 3})

	bytes, err := tbl.ToIPC()
	require.NoError(err)

	back, err := FromIPC(bytes)
	require.NoError(err)

	require.True(tbl.Schema().Equal(back.Schema()))
	require.Equal(tbl.NumRows(), back.NumRows())

	orig := tbl.Batches()[0].Column(0).(*array.Float64)
	rt := back.Batches()[0].Column(0).(*array.Float64)
	require.Equal(orig.Float64Values(), rt.Float64Values())
}

func TestHeadIsBoundedAndPreservesOrder(t *testing.T) {
	require := require.New(t)
	tbl := buildTestTable(t, []float64{1, 2, 3, 4, 5})

	head, err := tbl.Head(3)
	require.NoError(err)
	require.LessOrEqual(head.NumRows(), 3)
	require.Equal(3, head.NumRows())

	col := head.Batches()[0].Column(0).(*array.Float64)
	require.Equal([]float64{1, 2, 3}, col.Float64Values())
}

func TestHeadNeverExceedsTableSize(t *testing.T) {
	require := require.New(t)
	tbl := buildTestTable(t, []float64{1, 2})

	head, err := tbl.Head(10)
	require.NoError(err)
	require.Equal(2, head.NumRows())
}

func TestWithOrderingIsIdempotentAfterSecondCall(t *testing.T) {
	require := require.New(t)
	tbl := buildTestTable(t, []float64{10, 20, 30})

	once, err := tbl.WithOrdering()
	require.NoError(err)
	twice, err := once.WithOrdering()
	require.NoError(err)

	require.True(once.Schema().Equal(twice.Schema()))
	require.Equal(len(once.ColumnNames()), len(twice.ColumnNames()))

	onceOrder := once.Batches()[0].Column(1).(*array.Int64)
	twiceOrder := twice.Batches()[0].Column(1).(*array.Int64)
	require.Equal(onceOrder.Int64Values(), twiceOrder.Int64Values())
}
