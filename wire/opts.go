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

// Package wire implements §6: the JSON request/response shapes the
// byte-in/byte-out RPC boundary carries, and the glue translating them
// to and from the planner/taskgraph/pretransform types the rest of
// this module works in natively.
package wire

import (
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/planner"
)

// Opts is the §6 wire shape of planner.Opts: "local_tz (required),
// default_input_tz (optional), row_limit (optional),
// preserve_interactivity (bool), keep_variables[] (variable, scope)".
type Opts struct {
	LocalTz               string       `json:"local_tz"`
	DefaultInputTz        *string      `json:"default_input_tz,omitempty"`
	RowLimit              *int         `json:"row_limit,omitempty"`
	PreserveInteractivity bool         `json:"preserve_interactivity,omitempty"`
	KeepVariables         []VariableRef `json:"keep_variables,omitempty"`
}

// ToPlannerOpts converts the wire shape to planner.Opts.
func (o Opts) ToPlannerOpts() planner.Opts {
	keep := make([]chartspec.ScopedVariable, len(o.KeepVariables))
	for i, v := range o.KeepVariables {
		keep[i] = v.ToScopedVariable()
	}
	return planner.Opts{
		LocalTz:               o.LocalTz,
		DefaultInputTz:        o.DefaultInputTz,
		RowLimit:              o.RowLimit,
		PreserveInteractivity: o.PreserveInteractivity,
		KeepVariables:         keep,
	}
}

// VariableRef is the wire shape of a chartspec.ScopedVariable: a
// (namespace, name) pair plus the group-mark index path locating it,
// serialized as plain JSON rather than chartspec's in-process types.
type VariableRef struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Scope     []uint32 `json:"scope,omitempty"`
}

// ToScopedVariable converts the wire shape to its in-process form.
func (v VariableRef) ToScopedVariable() chartspec.ScopedVariable {
	return chartspec.ScopedVariable{
		Variable: chartspec.Variable{Namespace: namespaceFromWire(v.Namespace), Name: v.Name},
		Scope:    chartspec.Scope(v.Scope),
	}
}

// VariableRefFromScoped converts a chartspec.ScopedVariable to its
// wire shape.
func VariableRefFromScoped(sv chartspec.ScopedVariable) VariableRef {
	return VariableRef{
		Name:      sv.Variable.Name,
		Namespace: namespaceToWire(sv.Variable.Namespace),
		Scope:     []uint32(sv.Scope),
	}
}

func namespaceFromWire(s string) chartspec.Namespace {
	switch s {
	case "data":
		return chartspec.NamespaceData
	case "scale":
		return chartspec.NamespaceScale
	default:
		return chartspec.NamespaceSignal
	}
}

func namespaceToWire(n chartspec.Namespace) string {
	switch n {
	case chartspec.NamespaceData:
		return "data"
	case chartspec.NamespaceScale:
		return "scale"
	default:
		return "signal"
	}
}
