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

// Package planner implements §4.7: the spec planner that splits a
// ChartSpec into a server spec, a client spec, and a communication
// plan, rewriting the server spec's datasets along the way (inline
// extraction, projection pushdown, scale-domain split, facet-aggregate
// lifting, dataset fusion).
package planner

import "github.com/dolthub/vegafusion-go/chartspec"

// dataRef pairs a *Data with the scope it lives in, so rewrites can be
// written back in place.
type dataRef struct {
	data  *chartspec.Data
	scope chartspec.Scope
}

// signalRef mirrors dataRef for signals.
type signalRef struct {
	signal *chartspec.Signal
	scope  chartspec.Scope
}

// scaleRef mirrors dataRef for scales.
type scaleRef struct {
	scale *chartspec.Scale
	scope chartspec.Scope
}

// walker collects every producer in a Spec, depth-first, recording
// the group-index path to each as its Scope (§3's scope-resolution
// model).
type walker struct {
	data    []dataRef
	signals []signalRef
	scales  []scaleRef
}

func walk(spec *chartspec.Spec) *walker {
	w := &walker{}
	w.walkMarksLevel(spec.Data, spec.Signals, spec.Scales, spec.Marks, nil)
	return w
}

func (w *walker) walkMarksLevel(data []chartspec.Data, signals []chartspec.Signal, scales []chartspec.Scale, marks []chartspec.Mark, scope chartspec.Scope) {
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
		w.walkMarksLevel(marks[i].Data, marks[i].Signals, marks[i].Scales, marks[i].Marks, childScope)
	}
}

// dataVar builds the ScopedVariable a Data entry is known by.
func dataVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: name}, Scope: scope}
}

func signalVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceSignal, Name: name}, Scope: scope}
}

func scaleVar(name string, scope chartspec.Scope) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceScale, Name: name}, Scope: scope}
}

// resolveData searches scope, then each ancestor scope in turn, for a
// dataset named name, matching the §3 scope-resolution rule.
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
