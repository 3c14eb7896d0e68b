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

package planner

import "github.com/dolthub/vegafusion-go/chartspec"

// inlineURLPrefix marks a Data.URL as already resolved to a
// caller-supplied inline table, distinct from Source (which names
// another dataset in the same spec) and from an unresolved
// vegafusion+dataset:// / table:// marker.
const inlineURLPrefix = "inline://"

// extractInlineDatasets implements §4.7 step 1: rewrite URLs of the
// form vegafusion+dataset://name and table://name into a reference to
// a caller-supplied inline table, so later planning steps (and the
// eventual task construction) see a resolved dependency rather than a
// URL fetch.
func extractInlineDatasets(spec *chartspec.Spec, tables map[string]InlineTable) {
	w := walk(spec)
	for _, ref := range w.data {
		if ref.data.URL == "" {
			continue
		}
		name, ok := extractInlineDatasetName(ref.data.URL)
		if !ok {
			continue
		}
		if _, found := tables[name]; !found {
			continue
		}
		ref.data.URL = inlineURLPrefix + name
	}
}
