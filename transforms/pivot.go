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

// PivotOn appends the §4.5 Pivot transform. Unlike the other
// transforms, the set of output columns depends on the data (one per
// distinct key value), so the caller must resolve keyValues itself
// (typically via a preceding distinctValues query) before building
// this step; op defaults to AggSum when unset, matching the reference
// transform's default.
func PivotOn(df *algebra.DataFrame, groupFields []string, key, value string, keyValues []string, op algebra.AggKind) *algebra.DataFrame {
	if op == "" {
		op = algebra.AggSum
	}
	groupBy := make([]algebra.NamedExpr, len(groupFields))
	for i, f := range groupFields {
		groupBy[i] = algebra.Proj(f, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64})
	}
	keyCol := &algebra.ColumnRef{Name: key, Typ: algebra.TypeUtf8}
	valueCol := &algebra.ColumnRef{Name: value, Typ: algebra.TypeFloat64}
	aggs := make([]*algebra.AggExpr, len(keyValues))
	for i, kv := range keyValues {
		matches := &algebra.BinaryExpr{Op: algebra.BinEq, Left: keyCol, Right: &algebra.Literal{Value: kv, Typ: algebra.TypeUtf8}, Typ: algebra.TypeBool}
		caseExpr := &algebra.Case{
			Whens: []algebra.WhenClause{{When: matches, Then: valueCol}},
			Else:  algebra.NullLiteral(algebra.TypeFloat64),
			Typ:   algebra.TypeFloat64,
		}
		aggs[i] = &algebra.AggExpr{Op: op, Field: caseExpr, As: kv, Typ: algebra.TypeFloat64}
	}
	return df.Aggregate(groupBy, aggs)
}
