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

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/dolthub/vegafusion-go/chartspec"
)

// PatchPreTransformedSpec implements §4.7's secondary patching
// operation: given a previously pre-transformed spec (spec1,
// preTransformed1) and a freshly edited spec2, compute the structural
// difference between the client halves of spec1 and spec2 and try to
// replay it onto preTransformed1, letting a caller migrate a small
// edit (a color change, a filter tweak) without a full server
// round-trip.
//
// Returns (patched, true) on success; (nil, false) when the patch
// can't be applied cleanly, or when applying it would reintroduce an
// unresolved inline-dataset URL marker (meaning spec2 changed
// something that can only be resolved by a real pre-transform).
func PatchPreTransformedSpec(spec1, preTransformed1, spec2 *chartspec.Spec) (*chartspec.Spec, bool) {
	planned1, err := PlanSpec(spec1, nil, Opts{})
	if err != nil {
		return nil, false
	}
	planned2, err := PlanSpec(spec2, nil, Opts{})
	if err != nil {
		return nil, false
	}

	client1, err := json.Marshal(planned1.ClientSpec)
	if err != nil {
		return nil, false
	}
	client2, err := json.Marshal(planned2.ClientSpec)
	if err != nil {
		return nil, false
	}

	mergePatch, err := jsonpatch.CreateMergePatch(client1, client2)
	if err != nil {
		return nil, false
	}

	pre1, err := json.Marshal(preTransformed1)
	if err != nil {
		return nil, false
	}

	patched, err := jsonpatch.MergePatch(pre1, mergePatch)
	if err != nil {
		return nil, false
	}

	var result chartspec.Spec
	if err := json.Unmarshal(patched, &result); err != nil {
		return nil, false
	}

	if hasAnyInlineDatasetURL(&result) {
		return nil, false
	}

	return &result, true
}

// hasAnyInlineDatasetURL reports whether any dataset in spec still
// carries an unresolved vegafusion+dataset:// or table:// URL marker,
// which would mean the patched spec needs a real pre-transform rather
// than a local patch.
func hasAnyInlineDatasetURL(spec *chartspec.Spec) bool {
	for _, ref := range walk(spec).data {
		if ref.data.URL == "" {
			continue
		}
		if _, ok := extractInlineDatasetName(ref.data.URL); ok {
			return true
		}
	}
	return false
}
