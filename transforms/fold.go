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

// FoldOn appends the §4.5 Fold transform: melt the named fields into
// one (keyAs, valueAs) pair per row, unioning one select per folded
// field.
func FoldOn(df *algebra.DataFrame, fields []string, keyAs, valueAs string) *algebra.DataFrame {
	var out *algebra.DataFrame
	for _, f := range fields {
		branch := df.Select(
			algebra.Star(),
			algebra.Proj(keyAs, &algebra.Literal{Value: f, Typ: algebra.TypeUtf8}),
			algebra.Proj(valueAs, &algebra.ColumnRef{Name: f, Typ: algebra.TypeFloat64}),
		)
		if out == nil {
			out = branch
		} else {
			out = out.Union(branch)
		}
	}
	return out
}
