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

package taskgraph

import (
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// Evaluator computes a single TaskNode's value given its already-
// evaluated incoming edges. The planner/pretransform layer supplies
// the concrete implementation per Kind; taskgraph only owns ordering,
// fingerprinting, and caching.
type Evaluator interface {
	Evaluate(node *TaskNode, inputs []TaskValue) (TaskValue, error)
}

// Evaluate resolves the value of every variable in want, evaluating
// only the requested nodes and their transitive dependencies (§4.6),
// respecting topological order, and reusing cache entries keyed by
// StateFingerprint so a node shared by two requested targets is
// computed at most once.
func Evaluate(g *TaskGraph, want []chartspec.ScopedVariable, ev Evaluator, cache *ValueCache) (map[string]TaskValue, error) {
	targets := make([]*TaskNode, 0, len(want))
	for _, v := range want {
		n, ok := g.NodeFor(v)
		if !ok {
			return nil, vferrors.NewPreTransform("requested variable %s is not produced by any task", v)
		}
		targets = append(targets, n)
	}

	needed := Ancestors(targets)
	values := make(map[*TaskNode]TaskValue, len(needed))

	for _, n := range needed {
		inputs := make([]TaskValue, len(n.Incoming))
		for i, e := range n.Incoming {
			inputs[i] = values[e.Source]
		}
		node := n
		v, err := cache.GetOrCompute(n.StateFingerprint, func() (TaskValue, error) {
			return ev.Evaluate(node, inputs)
		})
		if err != nil {
			return nil, err
		}
		values[n] = v
	}

	out := make(map[string]TaskValue, len(targets))
	for _, t := range targets {
		out[t.Task.Output.Key()] = values[t]
	}
	return out, nil
}
