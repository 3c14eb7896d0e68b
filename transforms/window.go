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

// WindowOp is one named window-function column of the §4.5 Window
// transform: op applied to field (empty for ops like row_number/rank
// that take none), partitioned by groupFields and ordered by
// sortFields, bounded by frame.
type WindowOp struct {
	Op    string
	Field string
	As    string
	Frame algebra.WindowFrame
}

// WindowOn appends the §4.5 Window transform's columns in a single
// Window node, all sharing the same partition/order.
func WindowOn(df *algebra.DataFrame, groupFields []string, sortFields []SortField, ops []WindowOp) *algebra.DataFrame {
	partitionBy := make([]algebra.Expr, len(groupFields))
	for i, f := range groupFields {
		partitionBy[i] = &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64}
	}
	orderBy := make([]algebra.SortKey, len(sortFields))
	for i, f := range sortFields {
		col := &algebra.ColumnRef{Name: f.Field, Typ: algebra.TypeFloat64}
		if f.Descending {
			orderBy[i] = algebra.Desc(col)
		} else {
			orderBy[i] = algebra.Asc(col)
		}
	}
	windows := make([]algebra.WindowExpr, len(ops))
	for i, op := range ops {
		var args []algebra.Expr
		if op.Field != "" {
			args = []algebra.Expr{&algebra.ColumnRef{Name: op.Field, Typ: algebra.TypeFloat64}}
		}
		fn := &algebra.FuncCall{Name: op.Op, Args: args, Typ: algebra.TypeFloat64}
		windows[i] = algebra.Win(op.As, fn, partitionBy, orderBy, op.Frame)
	}
	return df.Window(windows...)
}
