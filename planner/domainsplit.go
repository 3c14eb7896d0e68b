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

// fieldDomain is the subset of a scale's `domain` shape this pass
// recognizes: {"data": "<dataset>", "field": "<field>"}. Any other
// domain shape (a literal array, a signal reference) is left alone.
type fieldDomain struct {
	Data  string `json:"data"`
	Field string `json:"field"`
}

// discreteScaleTypes mirrors vega's is_discrete(): ordinal/point/band
// scales need every distinct domain value, not just its extent.
var discreteScaleTypes = map[string]bool{
	"ordinal": true,
	"point":   true,
	"band":    true,
}

// DomainSource records, for one synthesized domain dataset, the
// (source dataset, field) its domain was split out of -- needed to
// reconstruct the scale's resolved range after evaluation.
type DomainSource struct {
	SourceDataset chartspec.ScopedVariable
	Field         string
}

// splitScaleDomains implements §4.7 step 4: for each scale whose
// domain references a field of a data source, synthesize a dataset
// computing just that domain, redirect the scale to it, and return a
// mapping back from the synthesized dataset to (source, field) for
// later reconstruction.
func splitScaleDomains(spec *chartspec.Spec) map[string]DomainSource {
	out := map[string]DomainSource{}
	w := walk(spec)
	for _, sref := range w.scales {
		if len(sref.scale.Domain) == 0 {
			continue
		}
		var fd fieldDomain
		if err := json.Unmarshal(sref.scale.Domain, &fd); err != nil || fd.Data == "" || fd.Field == "" {
			continue
		}
		srcRef, ok := w.resolveData(fd.Data, sref.scope)
		if !ok {
			continue
		}

		discrete := discreteScaleTypes[sref.scale.Type]
		domainName := fmt.Sprintf("%s_domain_%s", sref.scale.Name, fd.Field)
		domainData := buildDomainDataset(domainName, fd.Data, fd.Field, discrete)

		attachDataset(spec, srcRef.scope, domainData)

		newDomain, err := json.Marshal(fieldDomain{Data: domainName, Field: fd.Field})
		if err == nil {
			sref.scale.Domain = newDomain
		}

		out[domainName] = DomainSource{
			SourceDataset: dataVar(srcRef.data.Name, srcRef.scope),
			Field:         fd.Field,
		}
	}
	return out
}

type aggregateTransformJSON struct {
	Type    string   `json:"type"`
	GroupBy []string `json:"groupby"`
}

type extentTransformJSON struct {
	Type  string `json:"type"`
	Field string `json:"field"`
}

func buildDomainDataset(name, source, field string, discrete bool) chartspec.Data {
	var raw json.RawMessage
	if discrete {
		raw, _ = json.Marshal(aggregateTransformJSON{Type: "aggregate", GroupBy: []string{field}})
	} else {
		raw, _ = json.Marshal(extentTransformJSON{Type: "extent", Field: field})
	}
	return chartspec.Data{
		Name:      name,
		Source:    source,
		Transform: []json.RawMessage{raw},
	}
}

// attachDataset appends a synthesized dataset at the given scope;
// splitScaleDomains passes the scope of the source dataset the domain
// was split from, so the scale resolves the new dataset outward.
func attachDataset(spec *chartspec.Spec, scope chartspec.Scope, data chartspec.Data) {
	if len(scope) == 0 {
		spec.Data = append(spec.Data, data)
		return
	}
	marks := spec.Marks
	var group *chartspec.Mark
	for _, idx := range scope {
		group = &marks[idx]
		marks = group.Marks
	}
	group.Data = append(group.Data, data)
}
