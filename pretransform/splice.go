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

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// spliceValues implements the second half of pre_transform_spec /
// pre_transform_extract: stamp every server_to_client value back into
// the planner's client-spec shell, turning a server-computed dataset
// into a static `values` array and a server-computed signal into a
// resolved `value`, matching planner/commplan.go's "structural shell
// pre-transform splices into" contract. Datasets and signals whose
// exact (name, scope) the client spec does not carry are skipped
// rather than treated as an error: the comm plan may name a variable
// the client spec's walk doesn't surface under its exact scope, which
// this simplified splice treats as nothing to inline.
func spliceValues(clientSpec *chartspec.Spec, want []chartspec.ScopedVariable, values map[string]taskgraph.TaskValue) error {
	return spliceValuesPartial(clientSpec, want, values, nil)
}

// spliceValuesPartial is spliceValues generalized for pre_transform_extract:
// a key present in outOfBand is resolved (its URL/Source/Transform
// cleared, same as any spliced dataset) but left without a Values
// array, since its rows are shipped separately rather than inlined.
func spliceValuesPartial(clientSpec *chartspec.Spec, want []chartspec.ScopedVariable, values map[string]taskgraph.TaskValue, outOfBand map[string]bool) error {
	w := walk(clientSpec)
	for _, sv := range want {
		val, ok := values[sv.Key()]
		if !ok {
			continue
		}
		switch sv.Variable.Namespace {
		case chartspec.NamespaceData:
			if outOfBand[sv.Key()] {
				if err := clearDataSource(w, sv, val); err != nil {
					return err
				}
				continue
			}
			if err := spliceData(w, sv, val); err != nil {
				return err
			}
		case chartspec.NamespaceSignal:
			if err := spliceSignal(w, sv, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// clearDataSource resolves a dataset's server-side provenance fields
// without inlining its rows, for a dataset pre_transform_extract is
// shipping out of band instead.
func clearDataSource(w *walker, sv chartspec.ScopedVariable, val taskgraph.TaskValue) error {
	ref, ok := findDataExact(w, sv.Variable.Name, sv.Scope)
	if !ok {
		return nil
	}
	if val.Kind != taskgraph.ValueTable || val.Table == nil {
		return vferrors.NewInternal("dataset %s evaluated to a non-table value", sv)
	}
	ref.data.URL = ""
	ref.data.Source = ""
	ref.data.Transform = nil
	return nil
}

func spliceData(w *walker, sv chartspec.ScopedVariable, val taskgraph.TaskValue) error {
	ref, ok := findDataExact(w, sv.Variable.Name, sv.Scope)
	if !ok {
		return nil
	}
	if val.Kind != taskgraph.ValueTable || val.Table == nil {
		return vferrors.NewInternal("dataset %s evaluated to a non-table value", sv)
	}
	rows, err := tableToJSONRows(val.Table)
	if err != nil {
		return err
	}
	ref.data.Values = rows
	ref.data.URL = ""
	ref.data.Source = ""
	ref.data.Transform = nil
	return nil
}

func spliceSignal(w *walker, sv chartspec.ScopedVariable, val taskgraph.TaskValue) error {
	ref, ok := findSignalExact(w, sv.Variable.Name, sv.Scope)
	if !ok {
		return nil
	}
	if val.Kind != taskgraph.ValueScalar {
		return vferrors.NewInternal("signal %s evaluated to a non-scalar value", sv)
	}
	raw, err := json.Marshal(val.Scalar)
	if err != nil {
		return vferrors.NewExternal(err)
	}
	ref.signal.Value = raw
	return nil
}

// findDataExact/findSignalExact look up a producer by its exact
// (name, scope) pair rather than walker.resolveData/resolveSignal's
// ancestor search: splicing targets the one dataset/signal the comm
// plan named, never a same-named shadow in an enclosing scope.
func findDataExact(w *walker, name string, scope chartspec.Scope) (*dataRef, bool) {
	for i := range w.data {
		if w.data[i].data.Name == name && w.data[i].scope.Equal(scope) {
			return &w.data[i], true
		}
	}
	return nil, false
}

func findSignalExact(w *walker, name string, scope chartspec.Scope) (*signalRef, bool) {
	for i := range w.signals {
		if w.signals[i].signal.Name == name && w.signals[i].scope.Equal(scope) {
			return &w.signals[i], true
		}
	}
	return nil, false
}

// tableToJSONRows renders an evaluated table as the flat-object-array
// JSON shape Vega's inline `values` expects, the wire-to-spec inverse
// of inlinevalues.go's jsonRowsToIPC.
func tableToJSONRows(t taskgraph.Table) (json.RawMessage, error) {
	vft, ok := t.(*table.VegaFusionTable)
	if !ok {
		return nil, vferrors.NewInternal("table value is not backed by *table.VegaFusionTable")
	}
	names := vft.ColumnNames()
	rows := make([]map[string]interface{}, 0, vft.NumRows())
	for _, rec := range vft.Batches() {
		n := int(rec.NumRows())
		for r := 0; r < n; r++ {
			row := make(map[string]interface{}, len(names))
			for c, name := range names {
				row[name] = cellValue(rec.Column(c), r)
			}
			rows = append(rows, row)
		}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, vferrors.NewExternal(err)
	}
	return raw, nil
}
