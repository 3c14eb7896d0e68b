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

// distinctValues renders the distinct combinations of fields as a
// GROUP BY with no aggregates, the same trick Extent/Aggregate use for
// a bare "SELECT DISTINCT".
func distinctValues(df *algebra.DataFrame, fields []string) *algebra.DataFrame {
	groupBy := make([]algebra.NamedExpr, len(fields))
	for i, f := range fields {
		groupBy[i] = algebra.Proj(f, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64})
	}
	return df.Aggregate(groupBy, nil)
}

// ImputeOn appends the §4.5 Impute transform: cross the distinct
// values of key with the distinct combinations of groupFields, left
// join the result back onto df, and fill field with value wherever no
// matching row existed.
func ImputeOn(df *algebra.DataFrame, field, key string, groupFields []string, value float64) *algebra.DataFrame {
	keyDomain := distinctValues(df, []string{key})
	groupDomain := distinctValues(df, groupFields)

	always := &algebra.Literal{Value: true, Typ: algebra.TypeBool}
	full := groupDomain.Join(keyDomain, algebra.JoinInner, always)

	cond := joinKeyCondition(append(append([]string{}, groupFields...), key))
	joined := full.Join(df, algebra.JoinLeft, cond)

	fieldCol := &algebra.ColumnRef{Name: field, Typ: algebra.TypeFloat64}
	filled := &algebra.FuncCall{Name: "coalesce", Args: []algebra.Expr{
		fieldCol, &algebra.Literal{Value: value, Typ: algebra.TypeFloat64},
	}, Typ: algebra.TypeFloat64}
	return joined.Select(algebra.Star(), algebra.Proj(field, filled))
}

// joinKeyCondition ANDs together equality on every named column,
// matching it against itself across the two sides of a join (relies
// on both relations projecting the same column name, as
// distinctValues does).
func joinKeyCondition(fields []string) algebra.Expr {
	var cond algebra.Expr
	for _, f := range fields {
		eq := &algebra.BinaryExpr{
			Op:   algebra.BinEq,
			Left: &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64},
			Right: &algebra.ColumnRef{
				Name: f, Typ: algebra.TypeFloat64,
			},
			Typ: algebra.TypeBool,
		}
		if cond == nil {
			cond = eq
		} else {
			cond = &algebra.BinaryExpr{Op: algebra.BinAnd, Left: cond, Right: eq, Typ: algebra.TypeBool}
		}
	}
	if cond == nil {
		return &algebra.Literal{Value: true, Typ: algebra.TypeBool}
	}
	return cond
}
