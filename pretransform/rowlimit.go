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

package pretransform

import (
	"github.com/dolthub/vegafusion-go/internal/table"
	"github.com/dolthub/vegafusion-go/taskgraph"
)

// applyRowLimit truncates every table value exceeding limit to its
// first limit rows in place, returning the keys of the values it
// clamped so the caller can attach a RowLimitWarning (§4.8).
func applyRowLimit(values map[string]taskgraph.TaskValue, limit int) []string {
	var clamped []string
	for k, v := range values {
		if v.Kind != taskgraph.ValueTable || v.Table == nil {
			continue
		}
		if v.Table.NumRows() <= limit {
			continue
		}
		vft, ok := v.Table.(*table.VegaFusionTable)
		if !ok {
			continue
		}
		head, err := vft.Head(limit)
		if err != nil {
			continue
		}
		values[k] = taskgraph.NewTableValue(head)
		clamped = append(clamped, k)
	}
	return clamped
}
