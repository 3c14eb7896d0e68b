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

	"github.com/dolthub/vegafusion-go/planner"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

func TestWarningsToWireTranslatesBothWarningTypes(t *testing.T) {
	require := require.New(t)
	in := []planner.Warning{
		planner.PlannerWarning{Message: "dropped unreachable signal"},
		planner.RowLimitWarning{Datasets: []string{"source_0"}},
	}
	out := warningsToWire(in)
	require.Len(out, 2)
	require.Equal("planner", out[0].Type)
	require.Equal("dropped unreachable signal", out[0].Message)
	require.Equal("row_limit", out[1].Type)
	require.Equal([]string{"source_0"}, out[1].Datasets)
}

func TestHandlePreTransformSpecReturnsPatchedSpec(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	cache, err := taskgraph.NewValueCache(100, 10_000_000)
	require.NoError(err)

	spec := []byte(`{
		"signals": [{"name": "base", "value": 2}, {"name": "doubled", "update": "base * 2"}]
	}`)
	req := PreTransformSpecRequest{
		Spec: spec,
		Opts: Opts{LocalTz: "UTC"},
	}
	resp, err := HandlePreTransformSpec(req, conn, cache)
	require.NoError(err)
	require.NotNil(resp)

	var patched map[string]interface{}
	require.NoError(json.Unmarshal(resp.Spec, &patched))
	require.Contains(patched, "signals")
}

func TestHandlePreTransformValuesRejectsScaleNamespace(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	cache, err := taskgraph.NewValueCache(100, 10_000_000)
	require.NoError(err)

	spec := []byte(`{
		"scales": [{"name": "xscale", "type": "linear", "domain": [0, 1], "range": "width"}]
	}`)
	req := PreTransformValuesRequest{
		Spec:      spec,
		Variables: []VariableRef{{Name: "xscale", Namespace: "scale"}},
		Opts:      Opts{LocalTz: "UTC"},
	}
	_, err = HandlePreTransformValues(req, conn, cache)
	require.Error(err)
}

func TestHandlePreTransformValuesReturnsRequestedSignal(t *testing.T) {
	require := require.New(t)
	conn := newFakeConnection()
	cache, err := taskgraph.NewValueCache(100, 10_000_000)
	require.NoError(err)

	spec := []byte(`{
		"signals": [{"name": "base", "value": 2}, {"name": "doubled", "update": "base * 2"}]
	}`)
	req := PreTransformValuesRequest{
		Spec:      spec,
		Variables: []VariableRef{{Name: "doubled", Namespace: "signal"}},
		Opts:      Opts{LocalTz: "UTC"},
	}
	resp, err := HandlePreTransformValues(req, conn, cache)
	require.NoError(err)
	require.Len(resp.Values, 1)
	require.Equal("doubled", resp.Values[0].Variable.Name)
}
