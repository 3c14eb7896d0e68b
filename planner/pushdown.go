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
	"encoding/json"

	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/expr/columnusage"
)

// projectTransform is the synthetic "keep only these columns" step
// inserted at the front of a dataset's pipeline by column-usage
// pushdown. It isn't one of vega's transform types; the eventual
// pipeline lowering stage treats it as a Select(fields...) step.
type projectTransform struct {
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
}

// pushdownColumnUsage implements §4.7 step 3: for each derived
// dataset, union the column usage of every descendant consumer and
// insert a projection dropping everything else. Analysis fails open:
// any Unknown usage anywhere in the fan-out disables the projection
// for that dataset entirely, and no warning is emitted for that (an
// unprojected dataset is never wrong, only less efficient) -- a
// PlannerWarning is reserved for constructs §4.7 calls out separately
// (unknown transform, unsupported expression) which this pass doesn't
// itself detect.
func pushdownColumnUsage(spec *chartspec.Spec, w *walker) []Warning {
	usage := columnusage.DatasetsColumnUsage{}

	collectFromExprs(spec, w, usage)

	for _, ref := range w.data {
		v := dataVar(ref.data.Name, ref.scope)
		u := usage.Lookup(v)
		if u.IsUnknown() {
			log.WithField("dataset", v.Key()).Debug("column usage unknown, falling back to unprojected pipeline")
			continue
		}
		cols := u.Columns()
		if len(cols) == 0 {
			continue
		}
		insertProjection(ref.data, cols)
	}
	return nil
}

// collectFromExprs walks every signal update expression, scale
// domain/range field reference, and dataset transform expression that
// reads `datum`, feeding each into columnusage.Analyze scoped to the
// dataset it iterates.
func collectFromExprs(spec *chartspec.Spec, w *walker, out columnusage.DatasetsColumnUsage) {
	for _, ref := range w.data {
		datum := dataVar(ref.data.Name, ref.scope)
		for _, raw := range ref.data.Transform {
			analyzeTransformExprs(raw, datum, out)
		}
	}
	for _, ref := range w.signals {
		if ref.signal.Update == "" {
			continue
		}
		node, err := expr.Parse(ref.signal.Update)
		if err != nil {
			continue
		}
		// A signal isn't itself a dataset row-iterator; any `data(...)`
		// call inside it is resolved in the signal's own scope and its
		// result merged in as Unknown usage (conservative: a signal
		// update can read any field of a dataset it calls data() on).
		mergeDataCalls(node, ref.scope, out)
	}
}

func analyzeTransformExprs(raw json.RawMessage, datum chartspec.ScopedVariable, out columnusage.DatasetsColumnUsage) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return
	}
	for _, key := range []string{"expr", "test", "filter"} {
		exprRaw, ok := generic[key]
		if !ok {
			continue
		}
		var src string
		if err := json.Unmarshal(exprRaw, &src); err != nil {
			continue
		}
		node, err := expr.Parse(src)
		if err != nil {
			continue
		}
		u := columnusage.Analyze(node, datum, nil)
		merge(out, u)
	}
}

func merge(into, from columnusage.DatasetsColumnUsage) {
	for _, e := range from.Entries() {
		existing := into[e.Variable.Key()]
		existing.Variable = e.Variable
		existing.Usage = existing.Usage.Union(e.Usage)
		into[e.Variable.Key()] = existing
	}
}

// mergeDataCalls is a light fallback for expressions outside a
// dataset's own transform pipeline (signal updates): since
// columnusage.Analyze needs a datum scope to attribute field accesses,
// and a signal has none, any dataset this expression names via
// data(...) is marked Unknown usage, matching columnusage's own
// fail-open contract for constructs it can't attribute precisely.
func mergeDataCalls(node expr.Node, scope chartspec.Scope, out columnusage.DatasetsColumnUsage) {
	var visit expr.Visitor
	visit = func(n expr.Node) expr.Visitor {
		if call, ok := n.(*expr.CallExpr); ok {
			if id, ok := call.Callee.(*expr.Identifier); ok && id.Name == "data" && len(call.Args) > 0 {
				if lit, ok := call.Args[0].(*expr.StringLiteral); ok {
					v := dataVar(lit.Value, scope)
					existing := out[v.Key()]
					existing.Variable = v
					existing.Usage = existing.Usage.Union(columnusage.UnknownUsage())
					out[v.Key()] = existing
				}
			}
		}
		return visit
	}
	expr.Walk(visit, node)
}

func insertProjection(d *chartspec.Data, fields []string) {
	p := projectTransform{Type: "project", Fields: fields}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	d.Transform = append([]json.RawMessage{raw}, d.Transform...)
}
