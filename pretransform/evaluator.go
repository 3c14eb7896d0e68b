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
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/chartspec"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/expr/compiler"
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// Evaluator is the concrete taskgraph.Evaluator §4.6 defers to this
// package: it dispatches each TaskNode by taskgraph.Kind, running its
// pipeline against Conn, the same role DataUrlTask/DataSourceTask/
// DataValuesTask/SignalTask/ScaleTask's `eval` implementations play in
// the original's vegafusion-rt-datafusion/src/data/tasks.rs and
// vegafusion-runtime/src/scale/task.rs.
type Evaluator struct {
	Conn Connection
}

var _ taskgraph.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Evaluate(node *taskgraph.TaskNode, inputs []taskgraph.TaskValue) (taskgraph.TaskValue, error) {
	ctx := context.Background()
	switch node.Task.Kind {
	case taskgraph.KindUrlData:
		return e.evalURLData(ctx, node)
	case taskgraph.KindInlineValues:
		return e.evalInlineValues(ctx, node)
	case taskgraph.KindSourceDerived:
		return e.evalSourceDerived(ctx, node, inputs)
	case taskgraph.KindSignal:
		return e.evalSignal(ctx, node, inputs)
	case taskgraph.KindScale:
		return e.evalScale(node, inputs)
	case taskgraph.KindLiteral:
		return e.evalLiteral(node)
	default:
		return taskgraph.TaskValue{}, vferrors.NewInternal("unhandled task kind %s", node.Task.Kind)
	}
}

func (e *Evaluator) evalURLData(ctx context.Context, node *taskgraph.TaskNode) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.UrlDataPayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindUrlData task has wrong payload type")
	}
	name := qualifiedTableName(node.Task.Output)
	if _, err := e.Conn.FetchURL(ctx, name, p.URL, p.Format); err != nil {
		return taskgraph.TaskValue{}, err
	}
	return e.runPipeline(ctx, node, name, p.Pipeline, nil)
}

func (e *Evaluator) evalInlineValues(ctx context.Context, node *taskgraph.TaskNode) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.InlineValuesPayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindInlineValues task has wrong payload type")
	}
	tbl, err := table.FromIPC(p.IPCBytes)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	name := qualifiedTableName(node.Task.Output)
	if err := e.Conn.RegisterTable(ctx, name, tbl); err != nil {
		return taskgraph.TaskValue{}, err
	}
	return e.runPipeline(ctx, node, name, p.Pipeline, nil)
}

func (e *Evaluator) evalSourceDerived(ctx context.Context, node *taskgraph.TaskNode, inputs []taskgraph.TaskValue) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.SourceDerivedPayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindSourceDerived task has wrong payload type")
	}
	// The source's table value was already materialized (and, by
	// runPipeline below, registered under its own qualified name) when
	// its own node evaluated; inputs[0] just confirms that happened.
	if len(inputs) == 0 {
		return taskgraph.TaskValue{}, vferrors.NewInternal("dataset %s has no resolved source input", node.Task.Output)
	}
	return e.runPipeline(ctx, node, p.Source, p.Pipeline, nil)
}

// runPipeline renders tableName's pipeline to SQL, executes it, and
// registers the result back under the node's own qualified name so a
// downstream SourceDerived task can reference it as its own `source`.
func (e *Evaluator) runPipeline(ctx context.Context, node *taskgraph.TaskNode, tableName string, pipeline []interface{}, cfg *compiler.CompilationConfig) (taskgraph.TaskValue, error) {
	if cfg == nil {
		cfg = &compiler.CompilationConfig{Callables: compiler.DefaultCallables()}
	}
	if cfg.Timezone == nil {
		cfg.Timezone = &compiler.TimezoneConfig{Default: node.Task.Timezone.Local}
	}

	df := algebra.FromTable(tableName)
	df, err := applyPipeline(df, pipeline, cfg)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}

	sql, err := df.ToSQL(e.Conn.Dialect(), "cte")
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	result, err := e.Conn.Query(ctx, sql)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}

	outName := qualifiedTableName(node.Task.Output)
	if outName != tableName {
		if err := e.Conn.RegisterTable(ctx, outName, result); err != nil {
			return taskgraph.TaskValue{}, err
		}
	}
	return taskgraph.NewTableValue(result), nil
}

func (e *Evaluator) evalSignal(ctx context.Context, node *taskgraph.TaskNode, inputs []taskgraph.TaskValue) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.SignalPayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindSignal task has wrong payload type")
	}
	cfg := &compiler.CompilationConfig{
		Signals:   map[string]algebra.Expr{},
		Callables: compiler.DefaultCallables(),
		Timezone:  &compiler.TimezoneConfig{Default: node.Task.Timezone.Local},
	}
	for i, in := range node.Task.Inputs {
		if i >= len(inputs) {
			break
		}
		lit, err := scalarLiteral(inputs[i])
		if err != nil {
			continue
		}
		cfg.Signals[in.Variable.Name] = lit
	}

	compiled, err := compileSignalExpr(p.CompiledExpr, cfg)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}

	sql, err := e.Conn.Dialect().RenderExpr(compiled)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	result, err := e.Conn.Query(ctx, fmt.Sprintf("SELECT %s AS value", sql))
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	v, err := scalarFromSingleCell(result)
	if err != nil {
		return taskgraph.TaskValue{}, err
	}
	return taskgraph.NewScalarValue(v), nil
}

func (e *Evaluator) evalScale(node *taskgraph.TaskNode, inputs []taskgraph.TaskValue) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.ScalePayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindScale task has wrong payload type")
	}
	sc, ok := p.ScaleSpec.(*chartspec.Scale)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("scale task payload missing *chartspec.Scale")
	}

	var domain interface{}
	if len(inputs) > 0 {
		if tbl, err := inputs[0].AsTable(); err == nil {
			domain = tbl
		}
	}
	if domain == nil {
		domain = sc.Domain
	}

	return taskgraph.NewScaleValue(&taskgraph.ScaleValue{Domain: domain, Range: sc.Range}), nil
}

func (e *Evaluator) evalLiteral(node *taskgraph.TaskNode) (taskgraph.TaskValue, error) {
	p, ok := node.Task.Payload.(taskgraph.LiteralPayload)
	if !ok {
		return taskgraph.TaskValue{}, vferrors.NewInternal("KindLiteral task has wrong payload type")
	}
	return taskgraph.NewScalarValue(p.Value), nil
}

// compileSignalExpr asserts the task's opaque CompiledExpr payload is
// the expr.Node build.go's buildSignalTask parsed, then lowers it.
func compileSignalExpr(raw interface{}, cfg *compiler.CompilationConfig) (algebra.Expr, error) {
	node, ok := raw.(expr.Node)
	if !ok {
		return nil, vferrors.NewInternal("signal task payload is not a parsed expression")
	}
	return compiler.Compile(node, cfg)
}

// scalarLiteral wraps an already-evaluated scalar TaskValue as the
// algebra.Literal a CompilationConfig's Signals map expects.
func scalarLiteral(v taskgraph.TaskValue) (algebra.Expr, error) {
	s, err := v.AsScalar()
	if err != nil {
		return nil, err
	}
	switch x := s.(type) {
	case float64:
		return &algebra.Literal{Value: x, Typ: algebra.TypeFloat64}, nil
	case bool:
		return &algebra.Literal{Value: x, Typ: algebra.TypeBool}, nil
	case string:
		return &algebra.Literal{Value: x, Typ: algebra.TypeUtf8}, nil
	case nil:
		return algebra.NullLiteral(algebra.TypeFloat64), nil
	default:
		// A scalar outside JSON's own float64/bool/string/nil vocabulary
		// (an int from a Go-native caller, a json.Number from a decoder
		// configured with UseNumber) is coerced to float64 at this
		// compiler-input boundary the same way the teacher's SQL layer
		// casts arbitrary column values with cast.
		if f, err := cast.ToFloat64E(x); err == nil {
			return &algebra.Literal{Value: f, Typ: algebra.TypeFloat64}, nil
		}
		return nil, vferrors.NewInternal("unsupported scalar signal type %T", s)
	}
}
