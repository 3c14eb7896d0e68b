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
	"github.com/dolthub/vegafusion-go/algebra"
	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// AggregateOp is one (field, op) pair of the §4.5 Aggregate transform;
// As aliases the output column, assigned positionally by the caller
// the same way the input spec's own `as` list does.
type AggregateOp struct {
	Field string // empty for the count op, which needs no field
	Op    algebra.AggKind
	As    string
}

// quantileOps are the ops §4.5 groups under "the quantile family".
// They lower to a named algebra.FuncCall so each dialect picks its own
// exact quantile function; when the executed result column comes back
// DECIMAL-typed, pretransform.cellValue widens it with
// github.com/shopspring/decimal instead of float64 so the exact value
// survives instead of being rounded.
var quantileOps = map[algebra.AggKind]bool{
	algebra.AggMedian: true, algebra.AggQ1: true, algebra.AggQ3: true,
}

// AggregateOn appends the §4.5 Aggregate transform's single algebra
// step to df.
func AggregateOn(df *algebra.DataFrame, groupFields []string, ops []AggregateOp) (*algebra.DataFrame, error) {
	groupBy := make([]algebra.NamedExpr, len(groupFields))
	for i, f := range groupFields {
		groupBy[i] = algebra.Proj(f, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64})
	}
	aggs := make([]*algebra.AggExpr, len(ops))
	for i, op := range ops {
		agg, err := buildAggExpr(op)
		if err != nil {
			return nil, err
		}
		aggs[i] = agg
	}
	return df.Aggregate(groupBy, aggs), nil
}

func buildAggExpr(op AggregateOp) (*algebra.AggExpr, error) {
	if op.Op == "" {
		return nil, vferrors.NewSpecification("aggregate: missing op for output %q", op.As)
	}
	var field algebra.Expr
	if op.Op != algebra.AggCount {
		if op.Field == "" {
			return nil, vferrors.NewSpecification("aggregate: op %q requires a field", op.Op)
		}
		field = &algebra.ColumnRef{Name: op.Field, Typ: algebra.TypeFloat64}
	}
	typ := algebra.TypeFloat64
	if op.Op == algebra.AggCount || op.Op == algebra.AggValid {
		typ = algebra.TypeInt64
	}
	if quantileOps[op.Op] {
		// The logical type stays float64 regardless of the physical
		// column type the dialect executes it as; a DECIMAL result
		// widens through pretransform.cellValue, not here.
		typ = algebra.TypeFloat64
	}
	return &algebra.AggExpr{Op: op.Op, Field: field, As: op.As, Typ: typ}, nil
}
