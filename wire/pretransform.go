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

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/planner"
	"github.com/dolthub/vegafusion-go/pretransform"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// Warning is the wire shape of a planner.Warning: Type selects which
// concrete warning it is, Message carries a PlannerWarning's text, and
// Datasets carries a RowLimitWarning's truncated dataset names.
type Warning struct {
	Type     string   `json:"type"`
	Message  string   `json:"message,omitempty"`
	Datasets []string `json:"datasets,omitempty"`
}

func warningsToWire(warnings []planner.Warning) []Warning {
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		switch x := w.(type) {
		case planner.PlannerWarning:
			out = append(out, Warning{Type: "planner", Message: x.Message})
		case planner.RowLimitWarning:
			out = append(out, Warning{Type: "row_limit", Datasets: x.Datasets})
		}
	}
	return out
}

// PreTransformSpecRequest is §6's `PreTransformSpecRequest { spec,
// inline_datasets[], opts }`.
type PreTransformSpecRequest struct {
	Spec           json.RawMessage `json:"spec"`
	InlineDatasets []InlineDataset `json:"inline_datasets,omitempty"`
	Opts           Opts            `json:"opts"`
}

// PreTransformSpecResponse is §6's `{ spec, warnings[] }`.
type PreTransformSpecResponse struct {
	Spec     json.RawMessage `json:"spec"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// HandlePreTransformSpec implements the pre_transform_spec wire
// endpoint: decode the request, run pretransform.PreTransformSpec, and
// re-encode the patched client spec.
func HandlePreTransformSpec(req PreTransformSpecRequest, conn pretransform.Connection, cache *taskgraph.ValueCache) (*PreTransformSpecResponse, error) {
	var spec chartspec.Spec
	if err := json.Unmarshal(req.Spec, &spec); err != nil {
		return nil, vferrors.NewSpecification("decoding spec: %v", err)
	}
	inlineTables, err := DecodeInlineDatasets(req.InlineDatasets)
	if err != nil {
		return nil, err
	}

	result, err := pretransform.PreTransformSpec(&spec, inlineTables, req.Opts.ToPlannerOpts(), conn, cache)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result.Spec)
	if err != nil {
		return nil, vferrors.NewExternal(err)
	}
	return &PreTransformSpecResponse{Spec: raw, Warnings: warningsToWire(result.Warnings)}, nil
}

// PreTransformValuesRequest is §6's `PreTransformValuesRequest { spec,
// inline_datasets[], opts }`, extended with the explicit variable list
// §4.8's pre_transform_values operation takes.
type PreTransformValuesRequest struct {
	Spec           json.RawMessage `json:"spec"`
	Variables      []VariableRef   `json:"variables"`
	InlineDatasets []InlineDataset `json:"inline_datasets,omitempty"`
	Opts           Opts            `json:"opts"`
}

// PreTransformValuesResponse is §6's `{ values[], warnings[] }`.
type PreTransformValuesResponse struct {
	Values   []NamedTaskValue `json:"values"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// HandlePreTransformValues implements the pre_transform_values wire
// endpoint. Per §4.8, a requested variable named in the Scale
// namespace is rejected outright rather than silently dropped.
func HandlePreTransformValues(req PreTransformValuesRequest, conn pretransform.Connection, cache *taskgraph.ValueCache) (*PreTransformValuesResponse, error) {
	var spec chartspec.Spec
	if err := json.Unmarshal(req.Spec, &spec); err != nil {
		return nil, vferrors.NewSpecification("decoding spec: %v", err)
	}
	inlineTables, err := DecodeInlineDatasets(req.InlineDatasets)
	if err != nil {
		return nil, err
	}

	want := make([]chartspec.ScopedVariable, len(req.Variables))
	for i, v := range req.Variables {
		sv := v.ToScopedVariable()
		if sv.Variable.Namespace == chartspec.NamespaceScale {
			return nil, vferrors.NewPreTransform("variable %s: scale namespace is not supported by pre_transform_values", sv)
		}
		want[i] = sv
	}

	opts := req.Opts.ToPlannerOpts()
	opts.KeepVariables = want

	result, err := pretransform.PreTransformValues(&spec, inlineTables, opts, conn, cache)
	if err != nil {
		return nil, err
	}

	values, err := namedValuesInOrder(want, result.Values)
	if err != nil {
		return nil, err
	}
	return &PreTransformValuesResponse{Values: values, Warnings: warningsToWire(result.Warnings)}, nil
}
