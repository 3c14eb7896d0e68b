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

// JoinAggregateOn appends the §4.5 JoinAggregate transform: the same
// (field, op) pairs as Aggregate, but windowed back onto the source
// rows instead of collapsing the group -- a Window node partitioned by
// groupFields rather than an Aggregate node.
func JoinAggregateOn(df *algebra.DataFrame, groupFields []string, ops []AggregateOp) (*algebra.DataFrame, error) {
	partitionBy := make([]algebra.Expr, len(groupFields))
	for i, f := range groupFields {
		partitionBy[i] = &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64}
	}
	windows := make([]algebra.WindowExpr, len(ops))
	for i, op := range ops {
		agg, err := buildAggExpr(op)
		if err != nil {
			return nil, err
		}
		var args []algebra.Expr
		if agg.Field != nil {
			args = []algebra.Expr{agg.Field}
		}
		fn := &algebra.FuncCall{Name: string(agg.Op), Args: args, Typ: agg.Typ}
		windows[i] = algebra.Win(op.As, fn, partitionBy, nil, algebra.WindowFrame{})
	}
	return df.Window(windows...), nil
}
