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
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/planner"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// Result is what all three §4.8 entry points (pre_transform_spec,
// pre_transform_extract, pre_transform_values) return: the patched
// client spec (values-only entry points leave Spec nil), the
// requested variable values, and any planner/row-limit warnings
// accumulated along the way.
type Result struct {
	Spec     *chartspec.Spec
	Values   map[string]taskgraph.TaskValue
	Warnings []planner.Warning
}

// PreTransformSpec implements pre_transform_spec: plan spec, evaluate
// every server-produced dataset/signal, splice the results back into
// the planned client spec as inline values, and return it alongside
// the evaluated table/scalar values.
func PreTransformSpec(spec *chartspec.Spec, inlineTables map[string]planner.InlineTable, opts planner.Opts, conn Connection, cache *taskgraph.ValueCache) (*Result, error) {
	plan, err := planner.PlanSpec(spec, inlineTables, opts)
	if err != nil {
		return nil, err
	}

	values, warnings, err := buildAndEvaluate(plan.ServerSpec, plan.Comm.ServerToClient, opts, conn, cache)
	if err != nil {
		return nil, err
	}
	if err := spliceValues(plan.ClientSpec, plan.Comm.ServerToClient, values); err != nil {
		return nil, err
	}
	destringifySelectionDatetimes(plan.ClientSpec)

	return &Result{Spec: plan.ClientSpec, Values: values, Warnings: append(plan.Warnings, warnings...)}, nil
}

// PreTransformValues implements pre_transform_values: evaluate exactly
// the requested variables (opts.KeepVariables) and return their
// values without producing a patched spec.
func PreTransformValues(spec *chartspec.Spec, inlineTables map[string]planner.InlineTable, opts planner.Opts, conn Connection, cache *taskgraph.ValueCache) (*Result, error) {
	plan, err := planner.PlanSpec(spec, inlineTables, opts)
	if err != nil {
		return nil, err
	}

	values, warnings, err := buildAndEvaluate(plan.ServerSpec, opts.KeepVariables, opts, conn, cache)
	if err != nil {
		return nil, err
	}

	return &Result{Values: values, Warnings: append(plan.Warnings, warnings...)}, nil
}

// PreTransformExtract implements pre_transform_extract: like
// PreTransformSpec, but any table result whose row count is at or
// above rowLimitThreshold is left out of band (returned separately,
// for the caller's transport layer to ship alongside the spec rather
// than inline within it) instead of inlined.
func PreTransformExtract(spec *chartspec.Spec, inlineTables map[string]planner.InlineTable, opts planner.Opts, conn Connection, cache *taskgraph.ValueCache, rowLimitThreshold int) (*Result, map[string]taskgraph.TaskValue, error) {
	plan, err := planner.PlanSpec(spec, inlineTables, opts)
	if err != nil {
		return nil, nil, err
	}

	values, warnings, err := buildAndEvaluate(plan.ServerSpec, plan.Comm.ServerToClient, opts, conn, cache)
	if err != nil {
		return nil, nil, err
	}

	extracted := make(map[string]taskgraph.TaskValue)
	outOfBand := make(map[string]bool)
	inline := make(map[string]taskgraph.TaskValue, len(values))
	for k, v := range values {
		if v.Kind == taskgraph.ValueTable && v.Table != nil && rowLimitThreshold > 0 && v.Table.NumRows() >= rowLimitThreshold {
			extracted[k] = v
			outOfBand[k] = true
			continue
		}
		inline[k] = v
	}

	if err := spliceValuesPartial(plan.ClientSpec, plan.Comm.ServerToClient, values, outOfBand); err != nil {
		return nil, nil, err
	}
	destringifySelectionDatetimes(plan.ClientSpec)

	return &Result{Spec: plan.ClientSpec, Values: inline, Warnings: append(plan.Warnings, warnings...)}, extracted, nil
}

// buildAndEvaluate builds serverSpec's task graph and evaluates
// exactly `want`, applying opts.RowLimit (§4.8's row-limit clamp) to
// every resulting table and reporting which datasets it clamped.
func buildAndEvaluate(serverSpec *chartspec.Spec, want []chartspec.ScopedVariable, opts planner.Opts, conn Connection, cache *taskgraph.ValueCache) (map[string]taskgraph.TaskValue, []planner.Warning, error) {
	tasks, err := BuildTasks(serverSpec, taskgraph.Timezone{Local: opts.LocalTz, DefaultInputTz: opts.DefaultInputTz})
	if err != nil {
		return nil, nil, err
	}
	graph, err := taskgraph.Build(tasks)
	if err != nil {
		return nil, nil, err
	}

	ev := &Evaluator{Conn: conn}
	values, err := taskgraph.Evaluate(graph, want, ev, cache)
	if err != nil {
		return nil, nil, err
	}

	var warnings []planner.Warning
	if opts.RowLimit != nil {
		if clamped := applyRowLimit(values, *opts.RowLimit); len(clamped) > 0 {
			warnings = append(warnings, planner.RowLimitWarning{Datasets: clamped})
		}
	}
	return values, warnings, nil
}
