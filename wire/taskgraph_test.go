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

package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

func scopedSignal(name string) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceSignal, Name: name}}
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling test fixture: %v", err)
	}
	return raw
}

func TestEncodeDecodeTaskRoundTripsUrlData(t *testing.T) {
	require := require.New(t)
	task := taskgraph.Task{
		Output:   scopedSignal("source_0"),
		Timezone: taskgraph.Timezone{Local: "UTC"},
		Kind:     taskgraph.KindUrlData,
		Payload:  taskgraph.UrlDataPayload{URL: "https://x/d.csv", Format: "csv", Pipeline: []interface{}{map[string]interface{}{"type": "identifier", "as": "id"}}},
	}
	wt, err := EncodeTask(task)
	require.NoError(err)
	require.Equal(kindUrlData, wt.Kind)

	back, err := DecodeTask(wt)
	require.NoError(err)
	require.Equal(taskgraph.KindUrlData, back.Kind)
	p, ok := back.Payload.(taskgraph.UrlDataPayload)
	require.True(ok)
	require.Equal("https://x/d.csv", p.URL)
	require.Equal("csv", p.Format)
	require.Len(p.Pipeline, 1)
}

func TestEncodeDecodeTaskRoundTripsSignalExpr(t *testing.T) {
	require := require.New(t)
	node, err := expr.Parse("base * 2")
	require.NoError(err)
	task := taskgraph.Task{
		Output:  scopedSignal("doubled"),
		Kind:    taskgraph.KindSignal,
		Inputs:  []chartspec.ScopedVariable{scopedSignal("base")},
		Payload: taskgraph.SignalPayload{CompiledExpr: node},
	}
	wt, err := EncodeTask(task)
	require.NoError(err)

	back, err := DecodeTask(wt)
	require.NoError(err)
	p, ok := back.Payload.(taskgraph.SignalPayload)
	require.True(ok)
	require.NotNil(p.CompiledExpr)
}

func TestEvaluateTaskGraphValueRequestResolvesRequestedIndex(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	cache, err := taskgraph.NewValueCache(100, 10_000_000)
	require.NoError(err)

	req := TaskGraphValueRequest{
		TaskGraph: []Task{
			{
				Output:   VariableRef{Name: "source_0", Namespace: "data"},
				Timezone: Timezone{Local: "UTC"},
				Kind:     kindUrlData,
				Payload:  mustJSON(t, urlDataPayloadWire{URL: "https://x/d.csv", Format: "csv"}),
			},
		},
		Indices: []int{0},
	}
	resp, err := EvaluateTaskGraphValueRequest(req, conn, cache)
	require.NoError(err)
	require.Len(resp.ResponseValues, 1)
	require.Equal("source_0", resp.ResponseValues[0].Variable.Name)
	require.Equal(kindTable, resp.ResponseValues[0].Value.Kind)
}

func TestEvaluateTaskGraphValueRequestRejectsOutOfRangeIndex(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	cache, err := taskgraph.NewValueCache(100, 10_000_000)
	require.NoError(err)

	req := TaskGraphValueRequest{
		TaskGraph: []Task{
			{
				Output:   VariableRef{Name: "source_0", Namespace: "data"},
				Timezone: Timezone{Local: "UTC"},
				Kind:     kindUrlData,
				Payload:  mustJSON(t, urlDataPayloadWire{URL: "https://x/d.csv", Format: "csv"}),
			},
		},
		Indices: []int{5},
	}
	_, err = EvaluateTaskGraphValueRequest(req, conn, cache)
	require.Error(err)
}
