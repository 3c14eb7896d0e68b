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

package compiler

import (
	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/expr"
	"github.com/dolthub/vegafusion-go/internal/suggest"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// mathBuiltins are the §4.3 math functions; each lowers straight to an
// algebra.FuncCall with the same logical name, resolved to an
// engine-native spelling by the target sqldialect.
var mathBuiltins = []string{
	"abs", "sqrt", "pow", "log", "exp", "ceil", "floor", "round", "sin", "cos", "tan",
}

// predicateBuiltins are the §4.3 boolean-test functions.
var predicateBuiltins = []string{"isFinite", "isNaN", "isValid", "isDate"}

// stringBuiltins are the §4.3 string functions.
var stringBuiltins = []string{"length", "indexof", "span"}

// dateBuiltins are the §4.3 local-time date-part accessors, each with
// a utc* counterpart (e.g. year/utcyear) also registered.
var dateBuiltins = []string{
	"datetime", "time", "year", "month", "date", "day",
	"hours", "minutes", "seconds", "milliseconds",
}

// unsupportedBuiltins are names §4.3 explicitly rejects.
var unsupportedBuiltins = []string{"format"}

// DefaultCallables builds the §4.3 standard callable scope: every
// named built-in, the "if" control macro, and the data()/
// vlSelectionTest()/vlSelectionResolve() data functions. Callers merge
// this with any spec-local transform/macro entries before compiling.
func DefaultCallables() map[string]*Callable {
	out := map[string]*Callable{}
	for _, name := range mathBuiltins {
		out[name] = &Callable{Kind: KindBuiltin, BuiltinName: name}
	}
	for _, name := range predicateBuiltins {
		out[name] = &Callable{Kind: KindBuiltin, BuiltinName: name}
	}
	for _, name := range stringBuiltins {
		out[name] = &Callable{Kind: KindBuiltin, BuiltinName: name}
	}
	for _, name := range dateBuiltins {
		out[name] = &Callable{Kind: KindBuiltin, BuiltinName: name}
		out["utc"+name] = &Callable{Kind: KindBuiltin, BuiltinName: "utc_" + name}
	}
	out["timeFormat"] = &Callable{Kind: KindLocalTransform, LocalTransform: timeFormatTransform(false)}
	out["utcFormat"] = &Callable{Kind: KindLocalTransform, LocalTransform: timeFormatTransform(true)}
	out["if"] = &Callable{Kind: KindMacro, Macro: ifMacro}
	out["data"] = &Callable{Kind: KindData, Data: dataFunc}
	out["vlSelectionTest"] = &Callable{Kind: KindData, Data: dataFunc}
	out["vlSelectionResolve"] = &Callable{Kind: KindData, Data: dataFunc}
	for _, name := range unsupportedBuiltins {
		out[name] = &Callable{Kind: KindUnsupported}
	}
	return out
}

// ifMacro rewrites if(test, then, else) into the ConditionalExpr node
// the rest of the compiler already knows how to lower, rather than
// special-casing a 3-ary control function.
func ifMacro(args []expr.Node) (expr.Node, error) {
	if len(args) != 3 {
		return nil, vferrors.NewCompilation("if() requires exactly 3 arguments, got %d", len(args))
	}
	return &expr.ConditionalExpr{Test: args[0], Consequent: args[1], Alternate: args[2]}, nil
}

// timeFormatTransform lowers timeFormat/utcFormat onto the logical
// utc_timestamp_to_str(ts, tz) call (§4.4 table), which a dialect
// renders with its own fixed datetime pattern; the caller's format
// string (args[1], a d3-time-format pattern) only selects between the
// local-default and UTC zone here and is not threaded further, since
// utc_timestamp_to_str's logical signature takes no format argument.
func timeFormatTransform(utc bool) LocalTransform {
	return func(args []algebra.Expr, tz TimezoneConfig) (algebra.Expr, error) {
		if len(args) != 2 {
			return nil, vferrors.NewCompilation("timeFormat/utcFormat requires exactly 2 arguments, got %d", len(args))
		}
		zone := tz.Default
		if utc {
			zone = "UTC"
		}
		return &algebra.FuncCall{
			Name: "utc_timestamp_to_str",
			Args: []algebra.Expr{args[0], &algebra.Literal{Value: zone, Typ: algebra.TypeUtf8}},
			Typ:  algebra.TypeUtf8,
		}, nil
	}
}

// dataFunc resolves data('name') (and the vlSelectionTest/
// vlSelectionResolve calls, which name a selection store the same
// way) against the compilation's data scope, without compiling the
// name argument as a general expression -- it must be a literal.
func dataFunc(args []expr.Node, cfg *CompilationConfig) (algebra.Expr, error) {
	if len(args) == 0 {
		return nil, vferrors.NewCompilation("data() requires at least 1 argument")
	}
	lit, ok := args[0].(*expr.StringLiteral)
	if !ok {
		return nil, vferrors.NewCompilation("data() first argument must be a string literal naming a dataset")
	}
	e, ok := cfg.Data[lit.Value]
	if !ok {
		return nil, vferrors.NewCompilation("unresolved dataset %q%s", lit.Value, suggest.FindFromMap(cfg.Data, lit.Value))
	}
	return e, nil
}
