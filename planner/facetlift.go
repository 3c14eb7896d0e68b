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
	"fmt"

	"github.com/dolthub/vegafusion-go/chartspec"
)

// facetFrom is the subset of a group mark's `from` shape this pass
// recognizes: {"facet": {"name": ..., "data": ..., "groupby": [...]}}.
type facetFrom struct {
	Facet *facetSpec `json:"facet"`
}

type facetSpec struct {
	Name      string          `json:"name"`
	Data      string          `json:"data"`
	GroupBy   []string        `json:"groupby"`
	Aggregate json.RawMessage `json:"aggregate,omitempty"`
}

// liftFacetAggregations implements §4.7 step 5: when a group mark
// facets a source by keys K and exactly one child of the facet
// contains a leading aggregate transform, synthesize a top-level
// dataset performing that aggregate grouped by K ∪ child.groupby,
// redirect the facet to source from it, and drop the lifted aggregate
// from the child.
//
// Known simplification: the spec's further rule -- when the facet
// itself also declares an aggregate, emit a joinaggregate grouped by K
// first and forward its results through the lift via a `min`
// pass-through -- is not implemented; group marks whose own facet
// declares an aggregate are left unlifted.
func liftFacetAggregations(spec *chartspec.Spec) {
	counter := 0
	var visit func(marks []chartspec.Mark, scope chartspec.Scope)
	visit = func(marks []chartspec.Mark, scope chartspec.Scope) {
		for i := range marks {
			m := &marks[i]
			if !m.IsGroup() {
				continue
			}
			if lifted := tryLiftOne(m, &counter); lifted != nil {
				spec.Data = append(spec.Data, *lifted)
			}

			childScope := append(append(chartspec.Scope{}, scope...), uint32(i))
			visit(m.Marks, childScope)
		}
	}
	visit(spec.Marks, nil)
}

// tryLiftOne inspects one group mark's facet and, if the lift
// condition holds, returns the synthesized top-level dataset and
// mutates the group/child in place.
func tryLiftOne(m *chartspec.Mark, counter *int) *chartspec.Data {
	if len(m.From) == 0 {
		return nil
	}
	var from facetFrom
	if err := json.Unmarshal(m.From, &from); err != nil || from.Facet == nil {
		return nil
	}
	facet := from.Facet
	if len(facet.Aggregate) > 0 {
		return nil
	}

	var child *chartspec.Data
	matches := 0
	for i := range m.Data {
		if m.Data[i].Source == facet.Name {
			matches++
			child = &m.Data[i]
		}
	}
	if matches != 1 {
		return nil
	}

	groupBy, ok := leadingAggregate(child)
	if !ok {
		return nil
	}

	liftedGroupBy := unionStrings(facet.GroupBy, groupBy)

	*counter++
	liftedName := fmt.Sprintf("facet_agg_%d", *counter)
	raw, _ := json.Marshal(aggregateTransformJSON{Type: "aggregate", GroupBy: liftedGroupBy})

	lifted := chartspec.Data{
		Name:      liftedName,
		Source:    facet.Data,
		Transform: []json.RawMessage{raw},
	}

	facet.Data = liftedName
	newFrom, err := json.Marshal(from)
	if err == nil {
		m.From = newFrom
	}

	child.Transform = child.Transform[1:]

	return &lifted
}

func unionStrings(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
