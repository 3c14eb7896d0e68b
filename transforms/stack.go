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

import "github.com/dolthub/vegafusion-go/algebra"

// StackOffset names one of the §4.5 Stack transform's offset modes.
type StackOffset string

const (
	StackZero      StackOffset = "zero"
	StackNormalize StackOffset = "normalize"
	StackCenter    StackOffset = "center"
)

const (
	stackCumColumn   = "__vf_stack_cum"
	stackTotalColumn = "__vf_stack_total"
)

// StackOn appends the §4.5 Stack transform: group by groupFields, sort
// within groups by sortField (when non-empty), accumulate field into a
// running sum, and derive y0/y1 per offset.
func StackOn(df *algebra.DataFrame, groupFields []string, sortField string, field string, offset StackOffset, y0, y1 string) *algebra.DataFrame {
	partitionBy := make([]algebra.Expr, len(groupFields))
	for i, f := range groupFields {
		partitionBy[i] = &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64}
	}
	var orderBy []algebra.SortKey
	if sortField != "" {
		orderBy = []algebra.SortKey{algebra.Asc(&algebra.ColumnRef{Name: sortField, Typ: algebra.TypeFloat64})}
	}
	fieldCol := &algebra.ColumnRef{Name: field, Typ: algebra.TypeFloat64}

	cumSum := &algebra.FuncCall{Name: "sum", Args: []algebra.Expr{fieldCol}, Typ: algebra.TypeFloat64}
	withCum := df.Window(algebra.Win(stackCumColumn, cumSum, partitionBy, orderBy, algebra.WindowFrame{}))

	if offset == StackNormalize || offset == StackCenter {
		totalSum := &algebra.FuncCall{Name: "sum", Args: []algebra.Expr{fieldCol}, Typ: algebra.TypeFloat64}
		withCum = withCum.Window(algebra.Win(stackTotalColumn, totalSum, partitionBy, nil, algebra.WindowFrame{}))
	}

	cumCol := &algebra.ColumnRef{Name: stackCumColumn, Typ: algebra.TypeFloat64}
	y1Expr := algebra.Expr(cumCol)
	y0Expr := algebra.Expr(&algebra.BinaryExpr{Op: algebra.BinSub, Left: cumCol, Right: fieldCol, Typ: algebra.TypeFloat64})

	switch offset {
	case StackNormalize:
		totalCol := &algebra.ColumnRef{Name: stackTotalColumn, Typ: algebra.TypeFloat64}
		y1Expr = &algebra.BinaryExpr{Op: algebra.BinDiv, Left: y1Expr, Right: totalCol, Typ: algebra.TypeFloat64}
		y0Expr = &algebra.BinaryExpr{Op: algebra.BinDiv, Left: y0Expr, Right: totalCol, Typ: algebra.TypeFloat64}
	case StackCenter:
		totalCol := &algebra.ColumnRef{Name: stackTotalColumn, Typ: algebra.TypeFloat64}
		half := &algebra.BinaryExpr{Op: algebra.BinDiv, Left: totalCol, Right: &algebra.Literal{Value: 2.0, Typ: algebra.TypeFloat64}, Typ: algebra.TypeFloat64}
		y1Expr = &algebra.BinaryExpr{Op: algebra.BinSub, Left: y1Expr, Right: half, Typ: algebra.TypeFloat64}
		y0Expr = &algebra.BinaryExpr{Op: algebra.BinSub, Left: y0Expr, Right: half, Typ: algebra.TypeFloat64}
	}

	return withCum.Select(algebra.Star(), algebra.Proj(y0, y0Expr), algebra.Proj(y1, y1Expr))
}
