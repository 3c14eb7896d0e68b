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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/expr/compiler"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/transforms"
)

// pipelineLog scopes pipeline-fallback logging the way planner.log
// scopes planning-fallback logging: same concern (a construct the
// server can't handle falls back to a no-op rather than failing the
// whole pipeline), different package.
var pipelineLog = logrus.WithField("component", "pretransform.pipeline")

// applyPipeline lowers a dataset's §4.5 transform list, in order, onto
// df, resolving any row-level expression (filter/formula test/expr
// strings) against cfg.
func applyPipeline(df *algebra.DataFrame, steps []interface{}, cfg *compiler.CompilationConfig) (*algebra.DataFrame, error) {
	for _, step := range steps {
		m, ok := step.(map[string]interface{})
		if !ok {
			continue
		}
		var err error
		df, err = applyTransform(df, m, cfg)
		if err != nil {
			return nil, err
		}
	}
	return df, nil
}

func applyTransform(df *algebra.DataFrame, m map[string]interface{}, cfg *compiler.CompilationConfig) (*algebra.DataFrame, error) {
	switch str(m["type"]) {
	case "project":
		return projectFields(df, strSlice(m["fields"])), nil
	case "filter":
		e, err := compileExprField(m, "filter", cfg)
		if err != nil {
			return nil, err
		}
		return transforms.FilterOn(df, e), nil
	case "formula":
		e, err := compileExprField(m, "expr", cfg)
		if err != nil {
			return nil, err
		}
		return transforms.FormulaOn(df, e, str(m["as"])), nil
	case "aggregate":
		ops, err := aggregateOps(m)
		if err != nil {
			return nil, err
		}
		return transforms.AggregateOn(df, strSlice(m["groupby"]), ops)
	case "joinaggregate":
		ops, err := aggregateOps(m)
		if err != nil {
			return nil, err
		}
		return transforms.JoinAggregateOn(df, strSlice(m["groupby"]), ops)
	case "window":
		return transforms.WindowOn(df, strSlice(m["groupby"]), sortFields(m), windowOps(m)), nil
	case "extent":
		return transforms.ExtentOn(df, str(m["field"])), nil
	case "collect":
		return transforms.CollectOn(df, sortFields(m)), nil
	case "identifier":
		return transforms.IdentifierOn(df, str(m["as"])), nil
	case "fold":
		keyAs, valueAs := "key", "value"
		if as := strSlice(m["as"]); len(as) == 2 {
			keyAs, valueAs = as[0], as[1]
		}
		return transforms.FoldOn(df, strSlice(m["fields"]), keyAs, valueAs), nil
	case "impute":
		return transforms.ImputeOn(df, str(m["field"]), str(m["key"]), strSlice(m["groupby"]), numOr(m["value"], 0)), nil
	case "stack":
		y0, y1 := "y0", "y1"
		if as := strSlice(m["as"]); len(as) == 2 {
			y0, y1 = as[0], as[1]
		}
		offset := transforms.StackOffset(str(m["offset"]))
		if offset == "" {
			offset = transforms.StackZero
		}
		return transforms.StackOn(df, strSlice(m["groupby"]), str(m["sort"]), str(m["field"]), offset, y0, y1), nil
	case "pivot":
		op := algebra.AggKind(str(m["op"]))
		return transforms.PivotOn(df, strSlice(m["groupby"]), str(m["field"]), str(m["value"]), strSlice(m["keyvalues"]), op), nil
	case "timeunit":
		units := make([]transforms.TimeUnitPart, 0)
		for _, u := range strSlice(m["units"]) {
			units = append(units, transforms.TimeUnitPart(u))
		}
		as0, as1 := str(m["field"])+"_start", str(m["field"])+"_end"
		if as := strSlice(m["as"]); len(as) == 2 {
			as0, as1 = as[0], as[1]
		}
		zone := "UTC"
		if cfg.Timezone != nil {
			zone = cfg.Timezone.Default
		}
		return transforms.TimeUnitOn(df, str(m["field"]), units, zone, boolOr(m["utc"], false), as0, as1)
	case "lookup":
		// Assumes the named `from` dataset is already registered under
		// its bare chartspec name by the time this pipeline runs: the
		// task builder doesn't yet thread a lookup's secondary dataset
		// through as a declared task Input (see DESIGN.md).
		secondary := algebra.FromTable(str(m["from"]))
		return transforms.LookupOn(df, str(m["key"]), secondary, str(m["fields2"]), strSlice(m["fields"]), strSlice(m["as"])), nil
	default:
		pipelineLog.WithField("type", str(m["type"])).Warn("unknown transform type, falling back to a no-op step")
		return df, nil
	}
}

func projectFields(df *algebra.DataFrame, fields []string) *algebra.DataFrame {
	if len(fields) == 0 {
		return df
	}
	exprs := make([]algebra.NamedExpr, len(fields))
	for i, f := range fields {
		exprs[i] = algebra.Proj(f, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64})
	}
	return df.Select(exprs...)
}

func compileExprField(m map[string]interface{}, key string, cfg *compiler.CompilationConfig) (algebra.Expr, error) {
	src := str(m[key])
	if src == "" {
		return nil, vferrors.NewSpecification("transform %q missing required %q expression", m["type"], key)
	}
	node, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(node, cfg)
}

func aggregateOps(m map[string]interface{}) ([]transforms.AggregateOp, error) {
	ops := strSlice(m["ops"])
	fields := strSlice(m["fields"])
	as := strSlice(m["as"])
	out := make([]transforms.AggregateOp, len(ops))
	for i, op := range ops {
		var field, alias string
		if i < len(fields) {
			field = fields[i]
		}
		if i < len(as) {
			alias = as[i]
		} else {
			alias = field
		}
		out[i] = transforms.AggregateOp{Field: field, Op: algebra.AggKind(op), As: alias}
	}
	return out, nil
}

func windowOps(m map[string]interface{}) []transforms.WindowOp {
	ops := strSlice(m["ops"])
	fields := strSlice(m["fields"])
	as := strSlice(m["as"])
	out := make([]transforms.WindowOp, len(ops))
	for i, op := range ops {
		var field, alias string
		if i < len(fields) {
			field = fields[i]
		}
		if i < len(as) {
			alias = as[i]
		} else {
			alias = op
		}
		out[i] = transforms.WindowOp{Op: op, Field: field, As: alias}
	}
	return out
}

func sortFields(m map[string]interface{}) []transforms.SortField {
	names := strSlice(m["sort"])
	if len(names) == 0 {
		names = strSlice(m["field"])
	}
	orders := strSlice(m["order"])
	out := make([]transforms.SortField, len(names))
	for i, n := range names {
		desc := i < len(orders) && orders[i] == "descending"
		out[i] = transforms.SortField{Field: n, Descending: desc}
	}
	return out
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

// numOr coerces v (a generic transform-config field decoded from JSON,
// but possibly hand-built as a Go int/string by a non-JSON caller) to
// float64 via cast, the same coercion the teacher's SQL layer applies
// to arbitrary input values, falling back to def when v is absent or
// not coercible.
func numOr(v interface{}, def float64) float64 {
	if v == nil {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

func boolOr(v interface{}, def bool) bool {
	if v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func strSlice(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
