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

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

func TestBuildTasksProducesUrlDataTaskForTopLevelDataset(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{{Name: "source_0", URL: "https://example.test/d.csv"}},
	}
	tasks, err := BuildTasks(spec, taskgraph.Timezone{Local: "UTC"})
	require.NoError(err)
	require.Len(tasks, 1)
	require.Equal(taskgraph.KindUrlData, tasks[0].Kind)
	p, ok := tasks[0].Payload.(taskgraph.UrlDataPayload)
	require.True(ok)
	require.Equal("csv", p.Format)
}

func TestBuildTasksProducesSourceDerivedTaskWithResolvedInput(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "source_0", URL: "https://example.test/d.csv"},
			{Name: "data_1", Source: "source_0"},
		},
	}
	tasks, err := BuildTasks(spec, taskgraph.Timezone{Local: "UTC"})
	require.NoError(err)
	require.Len(tasks, 2)
	require.Equal(taskgraph.KindSourceDerived, tasks[1].Kind)
	require.Len(tasks[1].Inputs, 1)
	require.Equal("source_0", tasks[1].Inputs[0].Variable.Name)
}

func TestBuildTasksRejectsUnresolvedSource(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{{Name: "data_1", Source: "missing"}},
	}
	_, err := BuildTasks(spec, taskgraph.Timezone{Local: "UTC"})
	require.Error(err)
}

func TestBuildTasksProducesSignalTaskWithSignalInputs(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Signals: []chartspec.Signal{
			{Name: "base", Value: json.RawMessage(`10`)},
			{Name: "doubled", Update: "base * 2"},
		},
	}
	tasks, err := BuildTasks(spec, taskgraph.Timezone{Local: "UTC"})
	require.NoError(err)
	require.Len(tasks, 2)
	require.Equal(taskgraph.KindLiteral, tasks[0].Kind)
	require.Equal(taskgraph.KindSignal, tasks[1].Kind)
	require.Len(tasks[1].Inputs, 1)
	require.Equal("base", tasks[1].Inputs[0].Variable.Name)
}

func TestBuildTasksProducesScaleTaskResolvingDomainDataset(t *testing.T) {
	require := require.New(t)
	domain, err := json.Marshal(scaleDomainRef{Data: "source_0", Field: "x"})
	require.NoError(err)
	spec := &chartspec.Spec{
		Data:   []chartspec.Data{{Name: "source_0", URL: "https://example.test/d.csv"}},
		Scales: []chartspec.Scale{{Name: "xscale", Type: "linear", Domain: domain}},
	}
	tasks, err := BuildTasks(spec, taskgraph.Timezone{Local: "UTC"})
	require.NoError(err)
	require.Len(tasks, 2)
	scaleTask := tasks[1]
	require.Equal(taskgraph.KindScale, scaleTask.Kind)
	require.Len(scaleTask.Inputs, 1)
	require.Equal("source_0", scaleTask.Inputs[0].Variable.Name)
}
