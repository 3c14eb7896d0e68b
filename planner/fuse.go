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

import (
	"encoding/json"

	"github.com/dolthub/vegafusion-go/chartspec"
)

// fuseDatasets implements §4.7 step 6: toposort derived datasets (the
// walk order is already a valid topological order, since a dataset's
// Source always names an earlier sibling or ancestor-scope dataset)
// and fuse a parent into each child when every fusion condition holds.
func fuseDatasets(spec *chartspec.Spec, w *walker, keep []chartspec.ScopedVariable) {
	keepSet := map[string]bool{}
	for _, v := range keep {
		keepSet[v.Key()] = true
	}

	for _, parentRef := range w.data {
		parent := parentRef.data
		parentVar := dataVar(parent.Name, parentRef.scope)
		if keepSet[parentVar.Key()] {
			continue
		}

		children := findChildren(w, parent.Name, parentRef.scope)
		if len(children) == 0 {
			continue
		}

		hasInline := isInlineDataset(parent)
		if (hasAggregate(parent) || !hasInline) && len(children) > 1 {
			continue
		}

		ok := true
		for _, c := range children {
			if c.data.Source != parent.Name {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		for _, c := range children {
			fuseInto(parent, c.data)
		}

		stub(parent)
	}
}

// findChildren returns every dataset in the same scope whose Source
// names parent, matching fuse.rs's outgoing-edge lookup (this layer
// has no explicit dependency graph; Source is the only edge kind a
// dataset can have to another dataset).
func findChildren(w *walker, parentName string, scope chartspec.Scope) []*dataRef {
	var out []*dataRef
	for i := range w.data {
		ref := &w.data[i]
		if ref.data.Source == parentName && ref.scope.Equal(scope) {
			out = append(out, ref)
		}
	}
	return out
}

// fuseInto prepends parent's pipeline onto child's and takes over
// child's provenance (its new Source/URL/Values become parent's, since
// child now starts from wherever parent started from).
func fuseInto(parent, child *chartspec.Data) {
	merged := make([]json.RawMessage, 0, len(parent.Transform)+len(child.Transform))
	merged = append(merged, parent.Transform...)
	merged = append(merged, child.Transform...)
	child.Transform = merged
	child.Source = parent.Source
	child.URL = parent.URL
	child.Values = parent.Values
}

func stub(d *chartspec.Data) {
	d.Transform = nil
	d.Source = ""
	d.Values = nil
	d.URL = ""
}
