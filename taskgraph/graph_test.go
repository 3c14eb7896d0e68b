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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/vegafusion-go/chartspec"
)

func dataVar(name string) chartspec.ScopedVariable {
	return chartspec.ScopedVariable{Variable: chartspec.Variable{Namespace: chartspec.NamespaceData, Name: name}}
}

func TestBuildOrdersDependenciesBeforeDependents(t *testing.T) {
	require := require.New(t)
	tasks := []Task{
		{Output: dataVar("b"), Inputs: []chartspec.ScopedVariable{dataVar("a")}, Kind: KindSourceDerived, Payload: SourceDerivedPayload{Source: "a"}},
		{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/a.csv"}},
	}
	g, err := Build(tasks)
	require.NoError(err)
	require.Len(g.Nodes(), 2)
	require.Equal("a", g.Nodes()[0].Task.Output.Variable.Name)
	require.Equal("b", g.Nodes()[1].Task.Output.Variable.Name)
}

func TestBuildRejectsDependencyCycle(t *testing.T) {
	require := require.New(t)
	tasks := []Task{
		{Output: dataVar("a"), Inputs: []chartspec.ScopedVariable{dataVar("b")}, Kind: KindSourceDerived, Payload: SourceDerivedPayload{Source: "b"}},
		{Output: dataVar("b"), Inputs: []chartspec.ScopedVariable{dataVar("a")}, Kind: KindSourceDerived, Payload: SourceDerivedPayload{Source: "a"}},
	}
	_, err := Build(tasks)
	require.Error(err)
}

func TestBuildRejectsDuplicateProducer(t *testing.T) {
	require := require.New(t)
	tasks := []Task{
		{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/1.csv"}},
		{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/2.csv"}},
	}
	_, err := Build(tasks)
	require.Error(err)
}

func TestBuildRejectsUnresolvedInput(t *testing.T) {
	require := require.New(t)
	tasks := []Task{
		{Output: dataVar("b"), Inputs: []chartspec.ScopedVariable{dataVar("missing")}, Kind: KindSourceDerived, Payload: SourceDerivedPayload{Source: "missing"}},
	}
	_, err := Build(tasks)
	require.Error(err)
}

func TestIdenticalPayloadsShareStateFingerprintAcrossSeparateGraphs(t *testing.T) {
	require := require.New(t)
	build := func() *TaskGraph {
		tasks := []Task{
			{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/a.csv"}},
		}
		g, err := Build(tasks)
		require.NoError(err)
		return g
	}
	g1, g2 := build(), build()
	n1, _ := g1.NodeFor(dataVar("a"))
	n2, _ := g2.NodeFor(dataVar("a"))
	require.Equal(n1.IDFingerprint, n2.IDFingerprint)
	require.Equal(n1.StateFingerprint, n2.StateFingerprint)
}

func TestDifferentPayloadsDiffer(t *testing.T) {
	require := require.New(t)
	mk := func(url string) *TaskGraph {
		tasks := []Task{
			{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: url}},
		}
		g, err := Build(tasks)
		require.NoError(err)
		return g
	}
	g1, g2 := mk("http://example.test/1.csv"), mk("http://example.test/2.csv")
	n1, _ := g1.NodeFor(dataVar("a"))
	n2, _ := g2.NodeFor(dataVar("a"))
	require.NotEqual(n1.StateFingerprint, n2.StateFingerprint)
}

func TestAncestorsIncludesOnlyTransitiveDependencies(t *testing.T) {
	require := require.New(t)
	tasks := []Task{
		{Output: dataVar("a"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/a.csv"}},
		{Output: dataVar("b"), Inputs: []chartspec.ScopedVariable{dataVar("a")}, Kind: KindSourceDerived, Payload: SourceDerivedPayload{Source: "a"}},
		{Output: dataVar("unrelated"), Kind: KindUrlData, Payload: UrlDataPayload{URL: "http://example.test/u.csv"}},
	}
	g, err := Build(tasks)
	require.NoError(err)
	target, _ := g.NodeFor(dataVar("b"))
	anc := Ancestors([]*TaskNode{target})
	require.Len(anc, 2)
	names := []string{anc[0].Task.Output.Variable.Name, anc[1].Task.Output.Variable.Name}
	require.Contains(names, "a")
	require.Contains(names, "b")
	require.NotContains(names, "unrelated")
}
