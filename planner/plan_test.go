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

package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
)

func rawTransform(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestExtractInlineDatasetsRewritesRecognizedURLSchemes(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "a", URL: "vegafusion+dataset://mytable"},
			{Name: "b", URL: "table://othertable"},
			{Name: "c", URL: "https://example.test/d.csv"},
		},
	}
	tables := map[string]InlineTable{"mytable": struct{}{}, "othertable": struct{}{}}
	extractInlineDatasets(spec, tables)

	require.Equal("inline://mytable", spec.Data[0].URL)
	require.Equal("inline://othertable", spec.Data[1].URL)
	require.Equal("https://example.test/d.csv", spec.Data[2].URL)
}

func TestExtractInlineDatasetsLeavesUnknownNamesAlone(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{{Name: "a", URL: "vegafusion+dataset://missing"}},
	}
	extractInlineDatasets(spec, map[string]InlineTable{})
	require.Equal("vegafusion+dataset://missing", spec.Data[0].URL)
}

func TestSplitScaleDomainsSynthesizesAggregateForDiscreteScale(t *testing.T) {
	require := require.New(t)
	domain := rawTransform(t, fieldDomain{Data: "source_0", Field: "category"})
	spec := &chartspec.Spec{
		Data:   []chartspec.Data{{Name: "source_0"}},
		Scales: []chartspec.Scale{{Name: "xscale", Type: "ordinal", Domain: domain}},
	}

	domainMap := splitScaleDomains(spec)

	require.Len(spec.Data, 2)
	synth := spec.Data[1]
	require.Equal("xscale_domain_category", synth.Name)
	require.Equal("source_0", synth.Source)
	require.Len(synth.Transform, 1)

	var tp transformPeek
	require.NoError(json.Unmarshal(synth.Transform[0], &tp))
	require.Equal("aggregate", tp.Type)
	require.Equal([]string{"category"}, tp.GroupBy)

	_, ok := domainMap["xscale_domain_category"]
	require.True(ok)

	var newDomain fieldDomain
	require.NoError(json.Unmarshal(spec.Scales[0].Domain, &newDomain))
	require.Equal("xscale_domain_category", newDomain.Data)
}

func TestSplitScaleDomainsSynthesizesExtentForContinuousScale(t *testing.T) {
	require := require.New(t)
	domain := rawTransform(t, fieldDomain{Data: "source_0", Field: "amount"})
	spec := &chartspec.Spec{
		Data:   []chartspec.Data{{Name: "source_0"}},
		Scales: []chartspec.Scale{{Name: "yscale", Type: "linear", Domain: domain}},
	}

	splitScaleDomains(spec)

	synth := spec.Data[1]
	var tp transformPeek
	require.NoError(json.Unmarshal(synth.Transform[0], &tp))
	require.Equal("extent", tp.Type)
}

func TestFuseDatasetsFusesSingleChildNonAggregateParent(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "parent", URL: "https://example.test/d.csv"},
			{Name: "child", Source: "parent", Transform: []json.RawMessage{rawTransform(t, map[string]string{"type": "formula"})}},
		},
	}
	w := walk(spec)
	fuseDatasets(spec, w, nil)

	require.Equal("", spec.Data[0].Source)
	require.Equal("", spec.Data[0].URL)
	require.Equal("https://example.test/d.csv", spec.Data[1].URL)
	require.Len(spec.Data[1].Transform, 1)
}

func TestFuseDatasetsKeepsDatasetOnKeepList(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "parent", URL: "https://example.test/d.csv"},
			{Name: "child", Source: "parent"},
		},
	}
	w := walk(spec)
	keep := []chartspec.ScopedVariable{dataVar("parent", nil)}
	fuseDatasets(spec, w, keep)

	require.Equal("https://example.test/d.csv", spec.Data[0].URL)
}

func TestFuseDatasetsDoesNotFuseAggregateParentWithMultipleChildren(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "parent", URL: "https://example.test/d.csv", Transform: []json.RawMessage{rawTransform(t, map[string]string{"type": "aggregate"})}},
			{Name: "child1", Source: "parent"},
			{Name: "child2", Source: "parent"},
		},
	}
	w := walk(spec)
	fuseDatasets(spec, w, nil)

	require.Equal("https://example.test/d.csv", spec.Data[0].URL)
}

func TestLiftFacetAggregationsSynthesizesTopLevelDatasetAndStripsChild(t *testing.T) {
	require := require.New(t)
	from := rawTransform(t, facetFrom{Facet: &facetSpec{Name: "facet_0", Data: "source_0", GroupBy: []string{"category"}}})
	agg := rawTransform(t, aggregateTransformJSON{Type: "aggregate", GroupBy: []string{"subcategory"}})

	spec := &chartspec.Spec{
		Data: []chartspec.Data{{Name: "source_0"}},
		Marks: []chartspec.Mark{
			{
				Type: "group",
				From: from,
				Data: []chartspec.Data{{Name: "facet_0", Source: "facet_0", Transform: []json.RawMessage{agg}}},
			},
		},
	}

	liftFacetAggregations(spec)

	require.Len(spec.Data, 2)
	lifted := spec.Data[1]
	require.Equal("source_0", lifted.Source)

	var tp transformPeek
	require.NoError(json.Unmarshal(lifted.Transform[0], &tp))
	require.ElementsMatch([]string{"category", "subcategory"}, tp.GroupBy)

	require.Empty(spec.Marks[0].Data[0].Transform)

	var newFrom facetFrom
	require.NoError(json.Unmarshal(spec.Marks[0].From, &newFrom))
	require.Equal(lifted.Name, newFrom.Facet.Data)
}

func TestPushdownColumnUsageInsertsProjectionWhenKnown(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{
			{Name: "source_0", Transform: []json.RawMessage{
				rawTransform(t, map[string]string{"type": "filter", "expr": "datum.x > 0"}),
			}},
		},
	}
	w := walk(spec)
	pushdownColumnUsage(spec, w)

	require.Equal("project", peekTransform(spec.Data[0].Transform[0]).Type)
}

func TestPlanSpecProducesServerAndClientSpecs(t *testing.T) {
	require := require.New(t)
	spec := &chartspec.Spec{
		Data: []chartspec.Data{{Name: "source_0", URL: "https://example.test/d.csv"}},
	}
	p, err := PlanSpec(spec, nil, Opts{LocalTz: "UTC"})
	require.NoError(err)
	require.NotNil(p.ServerSpec)
	require.NotNil(p.ClientSpec)
	require.Len(p.Comm.ServerToClient, 1)
}
