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
	"encoding/json"
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

func oneRowFloatTable(t *testing.T, col string, v float64) *taskgraph.TaskValue {
	mem := memory.NewGoAllocator()
	b := array.NewFloat64Builder(mem)
	b.Append(v)
	arr := b.NewFloat64Array()
	schema := arrow.NewSchema([]arrow.Field{{Name: col, Type: arrow.PrimitiveTypes.Float64}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 1)
	tbl, err := table.New([]arrow.Record{rec})
	require.NoError(t, err)
	val := taskgraph.NewTableValue(tbl)
	return &val
}

func TestSpliceValuesInlinesDatasetAndSignal(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data:    []chartspec.Data{{Name: "source_0", URL: "https://example.test/d.csv"}},
		Signals: []chartspec.Signal{{Name: "base", Update: "1+1"}},
	}
	dataVal := oneRowFloatTable(t, "x", 3)
	values := map[string]taskgraph.TaskValue{
		dataVar("source_0", nil).Key():   *dataVal,
		signalVar("base", nil).Key():     taskgraph.NewScalarValue(2.0),
	}
	want := []chartspec.ScopedVariable{dataVar("source_0", nil), signalVar("base", nil)}

	err := spliceValues(spec, want, values)
	require.NoError(err)
	require.Empty(spec.Data[0].URL)
	require.NotEmpty(spec.Data[0].Values)
	var rows []map[string]interface{}
	require.NoError(json.Unmarshal(spec.Data[0].Values, &rows))
	require.Len(rows, 1)
	require.Equal(float64(3), rows[0]["x"])

	var sigVal float64
	require.NoError(json.Unmarshal(spec.Signals[0].Value, &sigVal))
	require.Equal(2.0, sigVal)
}

func TestSpliceValuesSkipsUnknownVariable(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{Data: []chartspec.Data{{Name: "source_0", URL: "https://x"}}}
	values := map[string]taskgraph.TaskValue{}
	err := spliceValues(spec, []chartspec.ScopedVariable{dataVar("source_0", nil)}, values)
	require.NoError(err)
	require.Equal("https://x", spec.Data[0].URL)
}

func TestSpliceValuesPartialLeavesOutOfBandDatasetUninlined(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{Data: []chartspec.Data{{Name: "big", URL: "https://example.test/big.csv"}}}
	dataVal := oneRowFloatTable(t, "x", 1)
	values := map[string]taskgraph.TaskValue{dataVar("big", nil).Key(): *dataVal}
	want := []chartspec.ScopedVariable{dataVar("big", nil)}

	err := spliceValuesPartial(spec, want, values, map[string]bool{dataVar("big", nil).Key(): true})
	require.NoError(err)
	require.Empty(spec.Data[0].URL)
	require.Empty(spec.Data[0].Values)
}
