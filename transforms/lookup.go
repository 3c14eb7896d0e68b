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

// LookupOn appends the §4.5 Lookup transform: a left join of df
// against secondary on key == foreignKey, projecting the selected
// fields under their `as` aliases.
func LookupOn(df *algebra.DataFrame, key string, secondary *algebra.DataFrame, foreignKey string, fields, as []string) *algebra.DataFrame {
	cond := &algebra.BinaryExpr{
		Op:   algebra.BinEq,
		Left: &algebra.ColumnRef{Name: key, Typ: algebra.TypeFloat64},
		// foreignKey is read from secondary; both sides render as bare
		// identifiers, so the join condition depends on the two
		// DataFrames not sharing a column-name collision on key.
		Right: &algebra.ColumnRef{Name: foreignKey, Typ: algebra.TypeFloat64},
		Typ:   algebra.TypeBool,
	}
	joined := df.Join(secondary, algebra.JoinLeft, cond)
	exprs := []algebra.NamedExpr{algebra.Star()}
	for i, f := range fields {
		alias := f
		if i < len(as) && as[i] != "" {
			alias = as[i]
		}
		exprs = append(exprs, algebra.Proj(alias, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64}))
	}
	return joined.Select(exprs...)
}
