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

// SortField is one Collect/Stack sort key: field name plus direction.
type SortField struct {
	Field      string
	Descending bool
}

// CollectOn appends the §4.5 Collect transform: a stable sort by the
// given fields, in order.
func CollectOn(df *algebra.DataFrame, fields []SortField) *algebra.DataFrame {
	keys := make([]algebra.SortKey, len(fields))
	for i, f := range fields {
		col := &algebra.ColumnRef{Name: f.Field, Typ: algebra.TypeFloat64}
		if f.Descending {
			keys[i] = algebra.Desc(col)
		} else {
			keys[i] = algebra.Asc(col)
		}
	}
	return df.Sort(keys...)
}
