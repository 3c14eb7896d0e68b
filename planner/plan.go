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

package planner

import (
	"github.com/dolthub/vegafusion-go/chartspec"
)

// InlineTable is a caller-supplied inline dataset, keyed by the name
// used in a vegafusion+dataset:// or table:// URL.
type InlineTable interface{}

// Opts carries the §6 "opts" wire structure this planner consumes.
type Opts struct {
	LocalTz              string
	DefaultInputTz        *string
	RowLimit              *int
	PreserveInteractivity bool
	KeepVariables         []chartspec.ScopedVariable
}

// Plan is the §4.7 planner's output: a server-side spec to execute, a
// client-side spec to ship, and the communication plan linking them.
type Plan struct {
	ServerSpec   *chartspec.Spec
	ClientSpec   *chartspec.Spec
	Comm         CommPlan
	Warnings     []Warning
	DomainSplits map[string]DomainSource
}

// CommPlan is the set of variables each side must exchange: anything
// the server computes that the client also reads, and anything the
// interactive client can mutate that the server's plan depends on.
type CommPlan struct {
	ServerToClient []chartspec.ScopedVariable
	ClientToServer []chartspec.ScopedVariable
}

// PlanSpec runs every §4.7 planning step in order over a cloned copy of
// spec and returns the resulting server/client split.
func PlanSpec(spec *chartspec.Spec, inlineTables map[string]InlineTable, opts Opts) (*Plan, error) {
	server := spec.Clone()
	var warnings []Warning

	extractInlineDatasets(server, inlineTables)

	w := walk(server)

	pushdownWarnings := pushdownColumnUsage(server, w)
	warnings = append(warnings, pushdownWarnings...)

	domainMap := splitScaleDomains(server)

	liftFacetAggregations(server)

	w = walk(server)
	fuseDatasets(server, w, opts.KeepVariables)

	comm := computeCommPlan(server, opts)

	client := buildClientSpec(server, comm)

	return &Plan{
		ServerSpec:   server,
		ClientSpec:   client,
		Comm:         comm,
		Warnings:     warnings,
		DomainSplits: domainMap,
	}, nil
}
