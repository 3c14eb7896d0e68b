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

// Edge is one incoming dependency of a TaskNode: OutputIndex selects
// which of the source's (possibly multiple) outputs feeds this input,
// and Propagate marks whether a cache-invalidating change in the
// source must re-evaluate this node (§3's "propagate" edge flag; a
// non-propagating edge is used for inputs whose staleness the
// consuming task tolerates, such as a signal only read for defaults).
type Edge struct {
	Source      *TaskNode
	OutputIndex int
	Propagate   bool
}

// TaskNode is one evaluated unit of the graph: a Task plus the edges
// that connect it to its resolved dependencies and dependents.
type TaskNode struct {
	Task           Task
	Incoming       []Edge
	Outgoing       []*TaskNode
	IDFingerprint  uint64
	StateFingerprint uint64
}

// TaskGraph is an acyclic, topologically-ordered collection of
// TaskNodes, one per distinct ScopedVariable (§3 invariant).
type TaskGraph struct {
	nodes  []*TaskNode
	byVar  map[string]*TaskNode
	topo   []*TaskNode
}

// NodeFor looks up the node producing a given ScopedVariable.
func (g *TaskGraph) NodeFor(v chartspec.ScopedVariable) (*TaskNode, bool) {
	n, ok := g.byVar[v.Key()]
	return n, ok
}

// Nodes returns every node in topological order (dependencies before
// dependents).
func (g *TaskGraph) Nodes() []*TaskNode { return g.topo }

// Build resolves each task's Inputs against the other tasks' Output
// ScopedVariables, links edges, computes both fingerprints bottom-up,
// and topologically sorts the result. It rejects duplicate producers
// for the same ScopedVariable and any dependency cycle, both as
// InternalError per §3/§7 (a cycle or duplicate producer is an
// invariant violation in a correctly-planned spec, not a user-facing
// condition).
func Build(tasks []Task) (*TaskGraph, error) {
	g := &TaskGraph{byVar: make(map[string]*TaskNode, len(tasks))}
	for i := range tasks {
		n := &TaskNode{Task: tasks[i]}
		key := tasks[i].Output.Key()
		if _, dup := g.byVar[key]; dup {
			return nil, vferrors.NewInternal("duplicate producer for variable %s", tasks[i].Output)
		}
		g.byVar[key] = n
		g.nodes = append(g.nodes, n)
	}

	for _, n := range g.nodes {
		for _, in := range n.Task.Inputs {
			src, ok := g.byVar[in.Key()]
			if !ok {
				return nil, vferrors.NewInternal("unresolved input variable %s for output %s", in, n.Task.Output)
			}
			n.Incoming = append(n.Incoming, Edge{Source: src, OutputIndex: 0, Propagate: true})
			src.Outgoing = append(src.Outgoing, n)
		}
	}

	order, err := topoSort(g.nodes)
	if err != nil {
		return nil, err
	}
	g.topo = order

	for _, n := range g.topo {
		inputFps := make([]uint64, len(n.Incoming))
		for i, e := range n.Incoming {
			inputFps[i] = e.Source.IDFingerprint
		}
		idFp, err := idFingerprint(n.Task.Kind, inputFps)
		if err != nil {
			return nil, vferrors.NewInternal("computing id_fingerprint for %s: %s", n.Task.Output, err)
		}
		stateFp, err := stateFingerprint(idFp, n.Task.Payload)
		if err != nil {
			return nil, vferrors.NewInternal("computing state_fingerprint for %s: %s", n.Task.Output, err)
		}
		n.IDFingerprint = idFp
		n.StateFingerprint = stateFp
	}

	return g, nil
}

// topoSort runs Kahn's algorithm and flags any remaining node as a
// cycle once no more zero-indegree nodes are found, matching §3's
// "acyclic" invariant.
func topoSort(nodes []*TaskNode) ([]*TaskNode, error) {
	indegree := make(map[*TaskNode]int, len(nodes))
	for _, n := range nodes {
		indegree[n] = len(n.Incoming)
	}

	var queue []*TaskNode
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*TaskNode, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, dep := range n.Outgoing {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, vferrors.NewInternal("dependency cycle detected among %d task(s)", len(nodes)-len(order))
	}
	return order, nil
}

// Ancestors returns every node transitively required to evaluate the
// given nodes (including themselves), used by the evaluation driver to
// select the "requested-or-transitively-needed" subset of §4.6 rather
// than evaluating the whole graph.
func Ancestors(targets []*TaskNode) []*TaskNode {
	seen := make(map[*TaskNode]bool)
	var out []*TaskNode
	var visit func(n *TaskNode)
	visit = func(n *TaskNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, e := range n.Incoming {
			visit(e.Source)
		}
		out = append(out, n)
	}
	for _, t := range targets {
		visit(t)
	}
	return out
}
