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

package transforms

import (
	"math"

	"github.com/dolthub/vegafusion-go/algebra"
)

// BinSignal is the scalar {fields, fname, start, step, stop} emitted
// when a bin transform names a signal (§4.5 Bin, last sentence).
type BinSignal struct {
	Fields []string
	Fname  string
	Start  float64
	Step   float64
	Stop   float64
}

// HiddenBinIndexColumn names the intermediate column the first select
// binds floor((field-start)/step) to, for the second select to read.
const HiddenBinIndexColumn = "__vf_bin_index"

// BinIndexExpr computes the floor((field - start) / step) expression
// that the first of the bin transform's two selects must bind to
// HiddenBinIndexColumn, so that BinEdgeExprs's second select can
// reference the already-computed index instead of recomputing the
// start expression (§4.5 Bin: "computed as two successive selects so
// the planner does not recompute the start expression").
func BinIndexExpr(field string, params BinParams) algebra.Expr {
	fieldCol := &algebra.ColumnRef{Name: field, Typ: algebra.TypeFloat64}
	diff := &algebra.BinaryExpr{
		Op: algebra.BinSub, Left: fieldCol,
		Right: &algebra.Literal{Value: params.Start, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeFloat64,
	}
	ratio := &algebra.BinaryExpr{
		Op: algebra.BinDiv, Left: diff,
		Right: &algebra.Literal{Value: params.Step, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeFloat64,
	}
	return &algebra.FuncCall{Name: "floor", Args: []algebra.Expr{ratio}, Typ: algebra.TypeFloat64}
}

// BinEdgeExprs builds the as[0]/as[1] expressions for the bin
// transform's second select, reading the index bound by
// BinIndexExpr. They apply the §4.5 edge rules: values below Start map
// to negative infinity; at or above Stop map to positive infinity;
// when integerColumn is set, the top bin's right edge snaps exactly to
// Stop whenever field is within Eps of it.
func BinEdgeExprs(field string, params BinParams, integerColumn bool) (lo, hi algebra.Expr) {
	lo = boundaryCase(field, edgeFromIndex(params, false), params, integerColumn, false)
	hi = boundaryCase(field, edgeFromIndex(params, true), params, integerColumn, true)
	return lo, hi
}

// BinOn appends the §4.5 Bin transform's two successive selects to df:
// the first binds HiddenBinIndexColumn, the second reads it back to
// produce as0/as1 without recomputing the start expression.
func BinOn(df *algebra.DataFrame, field string, params BinParams, integerColumn bool, as0, as1 string) *algebra.DataFrame {
	indexed := df.Select(algebra.Star(), algebra.Proj(HiddenBinIndexColumn, BinIndexExpr(field, params)))
	lo, hi := BinEdgeExprs(field, params, integerColumn)
	return indexed.Select(algebra.Star(), algebra.Proj(as0, lo), algebra.Proj(as1, hi))
}

func edgeFromIndex(params BinParams, upper bool) algebra.Expr {
	idx := &algebra.ColumnRef{Name: HiddenBinIndexColumn, Typ: algebra.TypeFloat64}
	scaled := &algebra.BinaryExpr{
		Op: algebra.BinMul, Left: idx,
		Right: &algebra.Literal{Value: params.Step, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeFloat64,
	}
	edge := &algebra.BinaryExpr{
		Op: algebra.BinAdd, Left: scaled,
		Right: &algebra.Literal{Value: params.Start, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeFloat64,
	}
	if !upper {
		return edge
	}
	return &algebra.BinaryExpr{
		Op: algebra.BinAdd, Left: edge,
		Right: &algebra.Literal{Value: params.Step, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeFloat64,
	}
}

func boundaryCase(field string, edge algebra.Expr, params BinParams, integerColumn, upper bool) algebra.Expr {
	fieldCol := &algebra.ColumnRef{Name: field, Typ: algebra.TypeFloat64}
	lt := &algebra.BinaryExpr{Op: algebra.BinLt, Left: fieldCol, Right: &algebra.Literal{Value: params.Start, Typ: algebra.TypeFloat64}, Typ: algebra.TypeBool}
	ge := &algebra.BinaryExpr{Op: algebra.BinGe, Left: fieldCol, Right: &algebra.Literal{Value: params.Stop, Typ: algebra.TypeFloat64}, Typ: algebra.TypeBool}
	negInf := &algebra.Literal{Value: math.Inf(-1), Typ: algebra.TypeFloat64}
	posInf := &algebra.Literal{Value: math.Inf(1), Typ: algebra.TypeFloat64}

	whens := []algebra.WhenClause{{When: lt, Then: negInf}, {When: ge, Then: posInf}}
	if integerColumn {
		eq := &algebra.FuncCall{Name: "approx_eq", Args: []algebra.Expr{
			fieldCol,
			&algebra.Literal{Value: params.Stop, Typ: algebra.TypeFloat64},
			&algebra.Literal{Value: params.Eps, Typ: algebra.TypeFloat64},
		}, Typ: algebra.TypeBool}
		snapped := &algebra.Literal{Value: params.Stop, Typ: algebra.TypeFloat64}
		if !upper {
			snapped = &algebra.Literal{Value: params.Stop - params.Step, Typ: algebra.TypeFloat64}
		}
		whens = append([]algebra.WhenClause{{When: eq, Then: snapped}}, whens...)
	}
	return &algebra.Case{Whens: whens, Else: edge, Typ: algebra.TypeFloat64}
}
