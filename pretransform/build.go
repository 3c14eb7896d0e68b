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
	"fmt"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/internal/suggest"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// dataRef/signalRef/scaleRef/walker mirror planner's scope walk
// (planner/scope.go): pretransform builds its task list from a
// already-planned (server-side) spec, independently of the planner
// package, since the two walks run over different lifetimes of the
// spec and gain nothing from sharing an unexported type.
type dataRef struct {
	data  *chartspec.Data
	scope chartspec.Scope
}

type signalRef struct {
	signal *chartspec.Signal
	scope  chartspec.Scope
}

type scaleRef struct {
	scale *chartspec.Scale
	scope chartspec.Scope
}

type walker struct {
	data    []dataRef
	signals []signalRef
	scales  []scaleRef
}

func walk(spec *chartspec.Spec) *walker {
	w := &walker{}
	w.walkLevel(spec.Data, spec.Signals, spec.Scales, spec.Marks, nil)
	return w
}

func (w *walker) walkLevel(data []chartspec.Data, signals []chartspec.Signal, scales []chartspec.Scale, marks []chartspec.Mark, scope chartspec.Scope) {
	for i := range data {
		w.data = append(w.data, dataRef{data: &data[i], scope: scope})
	}
	for i := range signals {
		w.signals = append(w.signals, signalRef{signal: &signals[i], scope: scope})
	}
	for i := range scales {
		w.scales = append(w.scales, scaleRef{scale: &scales[i], scope: scope})
	}
	for i := range marks {
		if !marks[i].IsGroup() {
			continue
		}
		childScope := append(append(chartspec.Scope{}, scope...), uint32(i))
		w.walkLevel(marks[i].Data, marks[i].Signals, marks[i].Scales, marks[i].Marks, childScope)
	}
}

func dataVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: name}, Scope: scope}
}

func signalVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceSignal, Name: name}, Scope: scope}
}

func scaleVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceScale, Name: name}, Scope: scope}
}

// dataNames lists every dataset name the walk found, across all
// scopes, as "did you mean" candidates for an unresolved source name.
func (w *walker) dataNames() []string {
	names := make([]string, len(w.data))
	for i := range w.data {
		names[i] = w.data[i].data.Name
	}
	return names
}

func (w *walker) resolveData(name string, scope chartspec.Scope) (*dataRef, bool) {
	for _, s := range scope.Ancestors() {
		for i := range w.data {
			if w.data[i].data.Name == name && w.data[i].scope.Equal(s) {
				return &w.data[i], true
			}
		}
	}
	return nil, false
}

func (w *walker) resolveSignal(name string, scope chartspec.Scope) (*signalRef, bool) {
	for _, s := range scope.Ancestors() {
		for i := range w.signals {
			if w.signals[i].signal.Name == name && w.signals[i].scope.Equal(s) {
				return &w.signals[i], true
			}
		}
	}
	return nil, false
}

// qualifiedTableName is the SQL-visible table name a dataset's
// materialized value is registered under: scope-qualified so two
// same-named datasets at different nesting depths never collide
// (bare chartspec names are only unique within one scope, per §3).
func qualifiedTableName(v chartspec.ScopedVariable) string {
	return fmt.Sprintf("t%s_%s", v.Scope, v.Variable.Name)
}

// BuildTasks walks a (already planned) spec and produces the flat
// Task list taskgraph.Build consumes: one task per dataset, signal,
// and scale, with Inputs resolved by §3's scope-search rule.
func BuildTasks(spec *chartspec.Spec, tz taskgraph.Timezone) ([]taskgraph.Task, error) {
	w := walk(spec)
	var tasks []taskgraph.Task

	for _, ref := range w.data {
		t, err := buildDataTask(w, ref, tz)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	for _, ref := range w.signals {
		t, err := buildSignalTask(w, ref, tz)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	for _, ref := range w.scales {
		t, err := buildScaleTask(w, ref, tz)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodePipeline(transform []json.RawMessage) []interface{} {
	steps := make([]interface{}, 0, len(transform))
	for _, raw := range transform {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		steps = append(steps, v)
	}
	return steps
}

func buildDataTask(w *walker, ref dataRef, tz taskgraph.Timezone) (taskgraph.Task, error) {
	d := ref.data
	out := dataVar(d.Name, ref.scope)
	pipeline := decodePipeline(d.Transform)

	base := taskgraph.Task{Output: out, Timezone: tz}

	switch {
	case d.Source != "":
		src, ok := w.resolveData(d.Source, ref.scope)
		if !ok {
			return taskgraph.Task{}, fmt.Errorf("dataset %q: unresolved source %q%s", d.Name, d.Source, suggest.Find(w.dataNames(), d.Source))
		}
		base.Kind = taskgraph.KindSourceDerived
		base.Inputs = []chartspec.ScopedVariable{dataVar(src.data.Name, src.scope)}
		base.Payload = taskgraph.SourceDerivedPayload{
			Source:   qualifiedTableName(dataVar(src.data.Name, src.scope)),
			Pipeline: pipeline,
		}
	case len(d.Values) > 0:
		ipc, err := jsonRowsToIPC(d.Values)
		if err != nil {
			return taskgraph.Task{}, err
		}
		base.Kind = taskgraph.KindInlineValues
		base.Payload = taskgraph.InlineValuesPayload{IPCBytes: ipc, Pipeline: pipeline}
	default:
		base.Kind = taskgraph.KindUrlData
		base.Payload = taskgraph.UrlDataPayload{URL: d.URL, Format: formatFor(d), Pipeline: pipeline}
	}
	return base, nil
}

// formatFor infers a dataset's source format from its explicit Format
// field if present, else the URL's extension, matching the original's
// extension-dispatch in vegafusion-rt-datafusion/src/data/tasks.rs.
func formatFor(d *chartspec.Data) string {
	if len(d.Format) > 0 {
		var f struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(d.Format, &f); err == nil && f.Type != "" {
			return f.Type
		}
	}
	switch {
	case hasSuffix(d.URL, ".csv"), hasSuffix(d.URL, ".tsv"):
		return "csv"
	case hasSuffix(d.URL, ".json"):
		return "json"
	case hasSuffix(d.URL, ".arrow"):
		return "arrow"
	case hasPrefix(d.URL, inlineURLPrefix):
		return "inline"
	default:
		return "csv"
	}
}

const inlineURLPrefix = "inline://"

func hasSuffix(s, suf string) bool {
	return len(s) >= len(suf) && s[len(s)-len(suf):] == suf
}

func hasPrefix(s, pre string) bool {
	return len(s) >= len(pre) && s[:len(pre)] == pre
}

func buildSignalTask(w *walker, ref signalRef, tz taskgraph.Timezone) (taskgraph.Task, error) {
	sig := ref.signal
	out := signalVar(sig.Name, ref.scope)

	if sig.Update == "" {
		var v interface{}
		if len(sig.Value) > 0 {
			if err := json.Unmarshal(sig.Value, &v); err != nil {
				return taskgraph.Task{}, err
			}
		}
		return taskgraph.Task{
			Output: out, Timezone: tz, Kind: taskgraph.KindLiteral,
			Payload: taskgraph.LiteralPayload{Value: v},
		}, nil
	}

	node, err := expr.Parse(sig.Update)
	if err != nil {
		return taskgraph.Task{}, err
	}

	var inputs []chartspec.ScopedVariable
	for _, name := range expr.Identifiers(node) {
		if sref, ok := w.resolveSignal(name, ref.scope); ok {
			inputs = append(inputs, signalVar(sref.signal.Name, sref.scope))
		}
	}

	return taskgraph.Task{
		Output: out, Timezone: tz, Kind: taskgraph.KindSignal,
		Inputs:  inputs,
		Payload: taskgraph.SignalPayload{CompiledExpr: node},
	}, nil
}

// scaleDomainRef is the §4.7-synthesized `{data, field}` domain shape
// domainsplit.go leaves every scale pointing at after planning.
type scaleDomainRef struct {
	Data  string `json:"data"`
	Field string `json:"field"`
}

func buildScaleTask(w *walker, ref scaleRef, tz taskgraph.Timezone) (taskgraph.Task, error) {
	sc := ref.scale
	out := scaleVar(sc.Name, ref.scope)

	var inputs []chartspec.ScopedVariable
	var domain scaleDomainRef
	if len(sc.Domain) > 0 && json.Unmarshal(sc.Domain, &domain) == nil && domain.Data != "" {
		if src, ok := w.resolveData(domain.Data, ref.scope); ok {
			inputs = append(inputs, dataVar(src.data.Name, src.scope))
		}
	}

	return taskgraph.Task{
		Output: out, Timezone: tz, Kind: taskgraph.KindScale,
		Inputs:  inputs,
		Payload: taskgraph.ScalePayload{ScaleSpec: sc},
	}, nil
}
