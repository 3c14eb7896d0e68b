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

// Package taskgraph implements §4.6: task construction, fingerprinting,
// topological evaluation, and the bounded value cache.
package taskgraph

import "github.com/dolthub/vegafusion-go/chartspec"

// Kind names one of the six task node kinds §3 enumerates.
type Kind int

const (
	KindUrlData Kind = iota
	KindInlineValues
	KindSourceDerived
	KindSignal
	KindScale
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindUrlData:
		return "UrlData"
	case KindInlineValues:
		return "InlineValues"
	case KindSourceDerived:
		return "SourceDerived"
	case KindSignal:
		return "Signal"
	case KindScale:
		return "Scale"
	case KindLiteral:
		return "Literal"
	default:
		return "Unknown"
	}
}

// Timezone is the zone configuration a task carries for any
// timezone-dependent step in its pipeline.
type Timezone struct {
	Local          string
	DefaultInputTz *string
}

// Task is one node's identity and payload; TaskGraph.Build resolves
// Inputs into incoming edges via scope resolution.
type Task struct {
	Output   chartspec.ScopedVariable
	Inputs   []chartspec.ScopedVariable
	Timezone Timezone
	Kind     Kind
	Payload  interface{}
}

// UrlDataPayload backs KindUrlData: fetch URL, parse per Format, then
// run Pipeline.
type UrlDataPayload struct {
	URL      string
	Format   string
	Pipeline []interface{}
}

// InlineValuesPayload backs KindInlineValues: an already-encoded IPC
// byte table plus its pipeline.
type InlineValuesPayload struct {
	IPCBytes []byte
	Pipeline []interface{}
}

// SourceDerivedPayload backs KindSourceDerived: a named upstream
// dataset plus the pipeline applied to it.
type SourceDerivedPayload struct {
	Source   string
	Pipeline []interface{}
}

// SignalPayload backs KindSignal: a compiled expression producing a
// scalar value.
type SignalPayload struct {
	CompiledExpr interface{}
}

// ScalePayload backs KindScale: a scale spec to resolve against its
// domain data.
type ScalePayload struct {
	ScaleSpec interface{}
}

// LiteralPayload backs KindLiteral: a constant value baked in at plan
// time.
type LiteralPayload struct {
	Value interface{}
}
