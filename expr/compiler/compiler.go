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

// Package compiler implements §4.3: lowering an expr.Node AST into
// algebra.Expr within a CompilationConfig that resolves signals, data,
// callables, and (where relevant) scales.
package compiler

import (
	"fmt"

	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/internal/suggest"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// CallableKind tags how a registered callable must be invoked.
type CallableKind int

const (
	// KindMacro rewrites the call's AST (not its already-compiled
	// arguments) and recurses into the rewritten form.
	KindMacro CallableKind = iota
	// KindTransform takes already-compiled argument expressions.
	KindTransform
	// KindLocalTransform additionally receives the timezone config.
	KindLocalTransform
	// KindBuiltin is an engine-native scalar function: the call lowers
	// straight to an algebra.FuncCall with this logical name.
	KindBuiltin
	// KindData consumes an identified table at compile time rather
	// than producing a row-level expression.
	KindData
	// KindUnsupported marks a callable that is recognized by name but
	// must be rejected (format is the only one named by §4.3).
	KindUnsupported
)

// Macro rewrites a call's raw argument AST into a replacement AST to
// recompile, before any argument is compiled.
type Macro func(args []expr.Node) (expr.Node, error)

// Transform compiles a call given its already-compiled arguments.
type Transform func(args []algebra.Expr) (algebra.Expr, error)

// LocalTransform is a Transform that also receives the timezone
// config in effect for this compilation.
type LocalTransform func(args []algebra.Expr, tz TimezoneConfig) (algebra.Expr, error)

// DataFunc resolves a call naming a dataset (e.g. data('name')) at
// compile time, given the raw (uncompiled) argument AST.
type DataFunc func(args []expr.Node, cfg *CompilationConfig) (algebra.Expr, error)

// Callable is one entry in the callable scope: exactly one of its
// function fields is set, selected by Kind.
type Callable struct {
	Kind           CallableKind
	Macro          Macro
	Transform      Transform
	LocalTransform LocalTransform
	BuiltinName    string
	Data           DataFunc
}

// TimezoneConfig carries the default timezone a LocalTransform needs
// (e.g. to resolve a bare `timeFormat` call with no explicit zone).
type TimezoneConfig struct {
	Default string
}

// CompilationConfig resolves every free name an AST can reference
// (§4.3): the signal scope (name -> scalar algebra.Expr), the data
// scope (name -> algebra.Expr naming/describing a table), the
// callable scope (name -> Callable), an optional timezone config, and
// an optional scale scope (only populated in scale-expression
// contexts).
type CompilationConfig struct {
	Signals   map[string]algebra.Expr
	Data      map[string]algebra.Expr
	Callables map[string]*Callable
	Timezone  *TimezoneConfig
	Scales    map[string]algebra.Expr
}

// Compile lowers node to an algebra.Expr under cfg.
func Compile(node expr.Node, cfg *CompilationConfig) (algebra.Expr, error) {
	return compile(node, cfg)
}

func compile(node expr.Node, cfg *CompilationConfig) (algebra.Expr, error) {
	switch n := node.(type) {
	case *expr.NumberLiteral:
		return &algebra.Literal{Value: n.Value, Typ: algebra.TypeFloat64}, nil
	case *expr.StringLiteral:
		return &algebra.Literal{Value: n.Value, Typ: algebra.TypeUtf8}, nil
	case *expr.BoolLiteral:
		return &algebra.Literal{Value: n.Value, Typ: algebra.TypeBool}, nil
	case *expr.NullLiteral:
		return algebra.NullLiteral(algebra.TypeFloat64), nil
	case *expr.Identifier:
		return compileIdentifier(n, cfg)
	case *expr.UnaryExpr:
		return compileUnary(n, cfg)
	case *expr.BinaryExpr:
		return compileBinary(n, cfg)
	case *expr.LogicalExpr:
		return compileLogical(n, cfg)
	case *expr.ConditionalExpr:
		return compileConditional(n, cfg)
	case *expr.ArrayExpr:
		return compileArray(n, cfg)
	case *expr.ObjectExpr:
		return compileObject(n, cfg)
	case *expr.MemberExpr:
		return compileMember(n, cfg)
	case *expr.CallExpr:
		return compileCall(n, cfg)
	default:
		return nil, vferrors.NewInternal("compiler: unhandled AST node type %T", node)
	}
}

func compileIdentifier(n *expr.Identifier, cfg *CompilationConfig) (algebra.Expr, error) {
	if e, ok := cfg.Signals[n.Name]; ok {
		return e, nil
	}
	return nil, vferrors.NewCompilation("unresolved identifier %q%s", n.Name, suggest.FindFromMap(cfg.Signals, n.Name))
}

func compileUnary(n *expr.UnaryExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	operand, err := compile(n.Operand, cfg)
	if err != nil {
		return nil, err
	}
	var op algebra.UnOp
	switch n.Op {
	case expr.UnaryMinus:
		op = algebra.UnNeg
	case expr.UnaryPlus:
		op = algebra.UnPos
	case expr.UnaryNot:
		op = algebra.UnNot
	default:
		return nil, vferrors.NewCompilation("unsupported unary operator %q", n.Op)
	}
	typ := operand.Type()
	if op == algebra.UnNot {
		typ = algebra.TypeBool
	}
	return &algebra.UnaryExpr{Op: op, Operand: operand, Typ: typ}, nil
}

var binOpMap = map[expr.BinaryOp]algebra.BinOp{
	expr.OpAdd: algebra.BinAdd, expr.OpSub: algebra.BinSub,
	expr.OpMul: algebra.BinMul, expr.OpDiv: algebra.BinDiv, expr.OpMod: algebra.BinMod,
	expr.OpEq: algebra.BinEq, expr.OpStrictEq: algebra.BinEq,
	expr.OpNeq: algebra.BinNeq, expr.OpStrictNe: algebra.BinNeq,
	expr.OpLt: algebra.BinLt, expr.OpLe: algebra.BinLe,
	expr.OpGt: algebra.BinGt, expr.OpGe: algebra.BinGe,
}

func compileBinary(n *expr.BinaryExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	left, err := compile(n.Left, cfg)
	if err != nil {
		return nil, err
	}
	right, err := compile(n.Right, cfg)
	if err != nil {
		return nil, err
	}
	op, ok := binOpMap[n.Op]
	if !ok {
		return nil, vferrors.NewCompilation("unsupported binary operator %q", n.Op)
	}
	typ := algebra.TypeFloat64
	switch op {
	case algebra.BinEq, algebra.BinNeq, algebra.BinLt, algebra.BinLe, algebra.BinGt, algebra.BinGe:
		typ = algebra.TypeBool
	case algebra.BinAdd:
		if left.Type() == algebra.TypeUtf8 || right.Type() == algebra.TypeUtf8 {
			typ = algebra.TypeUtf8
		}
	}
	return &algebra.BinaryExpr{Op: op, Left: left, Right: right, Typ: typ}, nil
}

func compileLogical(n *expr.LogicalExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	left, err := compile(n.Left, cfg)
	if err != nil {
		return nil, err
	}
	right, err := compile(n.Right, cfg)
	if err != nil {
		return nil, err
	}
	op := algebra.BinAnd
	if n.Op == expr.LogicalOr {
		op = algebra.BinOr
	}
	return &algebra.BinaryExpr{Op: op, Left: left, Right: right, Typ: algebra.TypeBool}, nil
}

func compileConditional(n *expr.ConditionalExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	test, err := compile(n.Test, cfg)
	if err != nil {
		return nil, err
	}
	then, err := compile(n.Consequent, cfg)
	if err != nil {
		return nil, err
	}
	els, err := compile(n.Alternate, cfg)
	if err != nil {
		return nil, err
	}
	return &algebra.Case{
		Whens: []algebra.WhenClause{{When: test, Then: then}},
		Else:  els,
		Typ:   then.Type(),
	}, nil
}

func compileArray(n *expr.ArrayExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	elems := make([]algebra.Expr, len(n.Elements))
	elemType := algebra.TypeNull
	for i, e := range n.Elements {
		c, err := compile(e, cfg)
		if err != nil {
			return nil, err
		}
		elems[i] = c
		if i == 0 {
			elemType = c.Type()
		}
	}
	return &algebra.ListLiteral{Elements: elems, ElemType: elemType}, nil
}

func compileObject(n *expr.ObjectExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	fields := make([]algebra.StructField, len(n.Properties))
	for i, p := range n.Properties {
		v, err := compile(p.Value, cfg)
		if err != nil {
			return nil, err
		}
		name, err := propertyKeyName(p.Key)
		if err != nil {
			return nil, err
		}
		fields[i] = algebra.StructField{Name: name, Value: v}
	}
	return &algebra.StructLiteral{Fields: fields}, nil
}

func propertyKeyName(key expr.Node) (string, error) {
	switch k := key.(type) {
	case *expr.Identifier:
		return k.Name, nil
	case *expr.StringLiteral:
		return k.Value, nil
	default:
		return "", vferrors.NewCompilation("object literal key must be identifier or string literal, got %T", key)
	}
}

// compileMember implements §4.3: field access on a struct-typed value
// resolves the named field; a computed member with an integer-literal
// index resolves that list element; any other computed member yields
// a typed null (the element type where known, else f64).
func compileMember(n *expr.MemberExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	object, err := compile(n.Object, cfg)
	if err != nil {
		return nil, err
	}
	if !n.Computed {
		prop, ok := n.Property.(*expr.Identifier)
		if !ok {
			return nil, vferrors.NewCompilation("static member property must be an identifier")
		}
		return &algebra.FieldAccess{Struct: object, Field: prop.Name, Typ: algebra.TypeFloat64}, nil
	}
	if lit, ok := n.Property.(*expr.NumberLiteral); ok && lit.Value == float64(int64(lit.Value)) {
		idx := int64(lit.Value)
		elemType := algebra.TypeFloat64
		if lst, ok := object.(*algebra.ListLiteral); ok {
			elemType = lst.ElemType
		}
		return &algebra.IndexAccess{List: object, Index: idx, Typ: elemType}, nil
	}
	// Non-integer-literal computed index: typed null per §4.3.
	nullType := algebra.TypeFloat64
	if lst, ok := object.(*algebra.ListLiteral); ok {
		nullType = lst.ElemType
	}
	return algebra.NullLiteral(nullType), nil
}

func compileCall(n *expr.CallExpr, cfg *CompilationConfig) (algebra.Expr, error) {
	id, ok := n.Callee.(*expr.Identifier)
	if !ok {
		return nil, vferrors.NewCompilation("call target must be a plain identifier")
	}
	callable, ok := cfg.Callables[id.Name]
	if !ok {
		return nil, vferrors.NewCompilation("unresolved callable %q%s", id.Name, suggest.FindFromMap(cfg.Callables, id.Name))
	}
	switch callable.Kind {
	case KindUnsupported:
		return nil, vferrors.NewCompilation("function %q is not supported", id.Name)
	case KindMacro:
		rewritten, err := callable.Macro(n.Args)
		if err != nil {
			return nil, err
		}
		return compile(rewritten, cfg)
	case KindData:
		return callable.Data(n.Args, cfg)
	case KindBuiltin:
		args, err := compileArgs(n.Args, cfg)
		if err != nil {
			return nil, err
		}
		return &algebra.FuncCall{Name: callable.BuiltinName, Args: args, Typ: algebra.TypeFloat64}, nil
	case KindTransform:
		args, err := compileArgs(n.Args, cfg)
		if err != nil {
			return nil, err
		}
		return callable.Transform(args)
	case KindLocalTransform:
		args, err := compileArgs(n.Args, cfg)
		if err != nil {
			return nil, err
		}
		tz := TimezoneConfig{}
		if cfg.Timezone != nil {
			tz = *cfg.Timezone
		}
		return callable.LocalTransform(args, tz)
	default:
		return nil, vferrors.NewInternal("compiler: unknown callable kind %d for %q", callable.Kind, id.Name)
	}
}

func compileArgs(nodes []expr.Node, cfg *CompilationConfig) ([]algebra.Expr, error) {
	out := make([]algebra.Expr, len(nodes))
	for i, n := range nodes {
		c, err := compile(n, cfg)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
