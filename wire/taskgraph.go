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
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/pretransform"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// Timezone is the wire shape of taskgraph.Timezone.
type Timezone struct {
	Local          string  `json:"local"`
	DefaultInputTz *string `json:"default_input_tz,omitempty"`
}

// Task is the wire shape of taskgraph.Task: Kind selects how Payload
// is decoded, mirroring the tagged-union shape the original's
// serialized task graph uses.
type Task struct {
	Output   VariableRef     `json:"output"`
	Inputs   []VariableRef   `json:"inputs,omitempty"`
	Timezone Timezone        `json:"timezone"`
	Kind     string          `json:"kind"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	kindUrlData       = "url_data"
	kindInlineValues  = "inline_values"
	kindSourceDerived = "source_derived"
	kindSignal        = "signal"
	kindScale         = "scale"
	kindLiteral       = "literal"
)

func kindToWire(k taskgraph.Kind) (string, error) {
	switch k {
	case taskgraph.KindUrlData:
		return kindUrlData, nil
	case taskgraph.KindInlineValues:
		return kindInlineValues, nil
	case taskgraph.KindSourceDerived:
		return kindSourceDerived, nil
	case taskgraph.KindSignal:
		return kindSignal, nil
	case taskgraph.KindScale:
		return kindScale, nil
	case taskgraph.KindLiteral:
		return kindLiteral, nil
	default:
		return "", vferrors.NewInternal("unknown task kind %s", k)
	}
}

func kindFromWire(s string) (taskgraph.Kind, error) {
	switch s {
	case kindUrlData:
		return taskgraph.KindUrlData, nil
	case kindInlineValues:
		return taskgraph.KindInlineValues, nil
	case kindSourceDerived:
		return taskgraph.KindSourceDerived, nil
	case kindSignal:
		return taskgraph.KindSignal, nil
	case kindScale:
		return taskgraph.KindScale, nil
	case kindLiteral:
		return taskgraph.KindLiteral, nil
	default:
		return 0, vferrors.NewInternal("unknown wire task kind %q", s)
	}
}

type urlDataPayloadWire struct {
	URL      string            `json:"url"`
	Format   string            `json:"format"`
	Pipeline []json.RawMessage `json:"pipeline,omitempty"`
}

type inlineValuesPayloadWire struct {
	IPCBytes []byte            `json:"ipc_bytes"`
	Pipeline []json.RawMessage `json:"pipeline,omitempty"`
}

type sourceDerivedPayloadWire struct {
	Source   string            `json:"source"`
	Pipeline []json.RawMessage `json:"pipeline,omitempty"`
}

type signalPayloadWire struct {
	Expr string `json:"expr"`
}

type scalePayloadWire struct {
	Scale chartspec.Scale `json:"scale"`
}

type literalPayloadWire struct {
	Value json.RawMessage `json:"value,omitempty"`
}

func decodePipelineWire(raw []json.RawMessage) []interface{} {
	out := make([]interface{}, 0, len(raw))
	for _, r := range raw {
		var v interface{}
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func encodePipelineWire(steps []interface{}) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(steps))
	for _, s := range steps {
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, vferrors.NewExternal(err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// DecodeTask converts a wire Task into its in-process taskgraph.Task,
// dispatching Payload's decoding by Kind.
func DecodeTask(t Task) (taskgraph.Task, error) {
	kind, err := kindFromWire(t.Kind)
	if err != nil {
		return taskgraph.Task{}, err
	}
	inputs := make([]chartspec.ScopedVariable, len(t.Inputs))
	for i, v := range t.Inputs {
		inputs[i] = v.ToScopedVariable()
	}
	out := taskgraph.Task{
		Output:   t.Output.ToScopedVariable(),
		Inputs:   inputs,
		Timezone: taskgraph.Timezone{Local: t.Timezone.Local, DefaultInputTz: t.Timezone.DefaultInputTz},
		Kind:     kind,
	}

	switch kind {
	case taskgraph.KindUrlData:
		var p urlDataPayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		out.Payload = taskgraph.UrlDataPayload{URL: p.URL, Format: p.Format, Pipeline: decodePipelineWire(p.Pipeline)}
	case taskgraph.KindInlineValues:
		var p inlineValuesPayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		out.Payload = taskgraph.InlineValuesPayload{IPCBytes: p.IPCBytes, Pipeline: decodePipelineWire(p.Pipeline)}
	case taskgraph.KindSourceDerived:
		var p sourceDerivedPayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		out.Payload = taskgraph.SourceDerivedPayload{Source: p.Source, Pipeline: decodePipelineWire(p.Pipeline)}
	case taskgraph.KindSignal:
		var p signalPayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		node, err := expr.Parse(p.Expr)
		if err != nil {
			return taskgraph.Task{}, err
		}
		out.Payload = taskgraph.SignalPayload{CompiledExpr: node}
	case taskgraph.KindScale:
		var p scalePayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		sc := p.Scale
		out.Payload = taskgraph.ScalePayload{ScaleSpec: &sc}
	case taskgraph.KindLiteral:
		var p literalPayloadWire
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return taskgraph.Task{}, vferrors.NewExternal(err)
		}
		var v interface{}
		if len(p.Value) > 0 {
			if err := json.Unmarshal(p.Value, &v); err != nil {
				return taskgraph.Task{}, vferrors.NewExternal(err)
			}
		}
		out.Payload = taskgraph.LiteralPayload{Value: v}
	}
	return out, nil
}

// EncodeTask converts an in-process taskgraph.Task to its wire shape,
// the inverse of DecodeTask (used by a caller that built a task graph
// with pretransform.BuildTasks and wants to ship it as a
// TaskGraphValueRequest rather than evaluate it locally).
func EncodeTask(t taskgraph.Task) (Task, error) {
	kind, err := kindToWire(t.Kind)
	if err != nil {
		return Task{}, err
	}
	inputs := make([]VariableRef, len(t.Inputs))
	for i, v := range t.Inputs {
		inputs[i] = VariableRefFromScoped(v)
	}
	out := Task{
		Output:   VariableRefFromScoped(t.Output),
		Inputs:   inputs,
		Timezone: Timezone{Local: t.Timezone.Local, DefaultInputTz: t.Timezone.DefaultInputTz},
		Kind:     kind,
	}

	var payload interface{}
	switch p := t.Payload.(type) {
	case taskgraph.UrlDataPayload:
		pipeline, err := encodePipelineWire(p.Pipeline)
		if err != nil {
			return Task{}, err
		}
		payload = urlDataPayloadWire{URL: p.URL, Format: p.Format, Pipeline: pipeline}
	case taskgraph.InlineValuesPayload:
		pipeline, err := encodePipelineWire(p.Pipeline)
		if err != nil {
			return Task{}, err
		}
		payload = inlineValuesPayloadWire{IPCBytes: p.IPCBytes, Pipeline: pipeline}
	case taskgraph.SourceDerivedPayload:
		pipeline, err := encodePipelineWire(p.Pipeline)
		if err != nil {
			return Task{}, err
		}
		payload = sourceDerivedPayloadWire{Source: p.Source, Pipeline: pipeline}
	case taskgraph.SignalPayload:
		node, ok := p.CompiledExpr.(expr.Node)
		if !ok {
			return Task{}, vferrors.NewInternal("signal task payload is not a parsed expression")
		}
		payload = signalPayloadWire{Expr: expr.Print(node)}
	case taskgraph.ScalePayload:
		sc, ok := p.ScaleSpec.(*chartspec.Scale)
		if !ok {
			return Task{}, vferrors.NewInternal("scale task payload missing *chartspec.Scale")
		}
		payload = scalePayloadWire{Scale: *sc}
	case taskgraph.LiteralPayload:
		raw, err := json.Marshal(p.Value)
		if err != nil {
			return Task{}, vferrors.NewExternal(err)
		}
		payload = literalPayloadWire{Value: raw}
	default:
		return Task{}, vferrors.NewInternal("unhandled task payload type %T", t.Payload)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, vferrors.NewExternal(err)
	}
	out.Payload = raw
	return out, nil
}

// DecodeTaskGraph decodes every wire Task in order.
func DecodeTaskGraph(tasks []Task) ([]taskgraph.Task, error) {
	out := make([]taskgraph.Task, len(tasks))
	for i, t := range tasks {
		dt, err := DecodeTask(t)
		if err != nil {
			return nil, err
		}
		out[i] = dt
	}
	return out, nil
}

// TaskGraphValueRequest is §6's `TaskGraphValueRequest { task_graph,
// indices[], inline_datasets[] }`: a previously-built task graph
// (serialized) plus the indices (into its topological node order) of
// the values this request wants evaluated.
type TaskGraphValueRequest struct {
	TaskGraph      []Task          `json:"task_graph"`
	Indices        []int           `json:"indices"`
	InlineDatasets []InlineDataset `json:"inline_datasets,omitempty"`
}

// TaskGraphValueResponse is §6's `TaskGraphValueResponse {
// response_values[(variable, scope, value)] }`.
type TaskGraphValueResponse struct {
	ResponseValues []NamedTaskValue `json:"response_values"`
}

// EvaluateTaskGraphValueRequest builds req's task graph, resolves the
// ScopedVariable each requested index names, evaluates exactly those
// (and their transitive dependencies, per taskgraph.Evaluate), and
// returns the results in request order.
func EvaluateTaskGraphValueRequest(req TaskGraphValueRequest, conn pretransform.Connection, cache *taskgraph.ValueCache) (*TaskGraphValueResponse, error) {
	tasks, err := DecodeTaskGraph(req.TaskGraph)
	if err != nil {
		return nil, err
	}
	graph, err := taskgraph.Build(tasks)
	if err != nil {
		return nil, err
	}

	nodes := graph.Nodes()
	want := make([]chartspec.ScopedVariable, 0, len(req.Indices))
	for _, idx := range req.Indices {
		if idx < 0 || idx >= len(nodes) {
			return nil, vferrors.NewInternal("task graph value request index %d out of range (graph has %d nodes)", idx, len(nodes))
		}
		want = append(want, nodes[idx].Task.Output)
	}

	ev := &pretransform.Evaluator{Conn: conn}
	values, err := taskgraph.Evaluate(graph, want, ev, cache)
	if err != nil {
		return nil, err
	}

	responseValues, err := namedValuesInOrder(want, values)
	if err != nil {
		return nil, err
	}
	return &TaskGraphValueResponse{ResponseValues: responseValues}, nil
}
