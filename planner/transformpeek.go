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
	"strings"

	"github.com/dolthub/vegafusion-go/chartspec"
)

// transformPeek is the minimal shape planner needs to read out of a
// transform's raw JSON without depending on the full transform AST.
type transformPeek struct {
	Type    string   `json:"type"`
	GroupBy []string `json:"groupby,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func peekTransform(raw json.RawMessage) transformPeek {
	var t transformPeek
	_ = json.Unmarshal(raw, &t)
	return t
}

// hasAggregate reports whether a dataset's pipeline contains a leading
// or any aggregate transform (fuse.rs's has_aggregate()).
func hasAggregate(d *chartspec.Data) bool {
	for _, raw := range d.Transform {
		if peekTransform(raw).Type == "aggregate" {
			return true
		}
	}
	return false
}

// leadingAggregate returns the first transform's groupby fields when
// that transform is an aggregate, used by facet-aggregation lifting to
// find "exactly one child with a leading aggregate".
func leadingAggregate(d *chartspec.Data) ([]string, bool) {
	if len(d.Transform) == 0 {
		return nil, false
	}
	t := peekTransform(d.Transform[0])
	if t.Type != "aggregate" {
		return nil, false
	}
	return t.GroupBy, true
}

// inlineDatasetMarkers recognizes the two URL forms §4.7 step 1
// rewrites: vegafusion+dataset://name and table://name.
const (
	vegaFusionDatasetPrefix = "vegafusion+dataset://"
	tableURLPrefix          = "table://"
)

// extractInlineDatasetName returns the inline table name a URL
// references, if it uses one of the recognized marker schemes.
func extractInlineDatasetName(url string) (string, bool) {
	if strings.HasPrefix(url, vegaFusionDatasetPrefix) {
		return strings.TrimPrefix(url, vegaFusionDatasetPrefix), true
	}
	if strings.HasPrefix(url, tableURLPrefix) {
		return strings.TrimPrefix(url, tableURLPrefix), true
	}
	return "", false
}

// isInlineDataset reports whether d's Values came from (or its URL
// names) a caller-supplied inline table -- fuse.rs's "has_inline_dataset"
// check, generalized to run after step 1 has already rewritten the URL
// to an inline:// marker.
func isInlineDataset(d *chartspec.Data) bool {
	if len(d.Values) > 0 {
		return true
	}
	if d.URL == "" {
		return false
	}
	if strings.HasPrefix(d.URL, inlineURLPrefix) {
		return true
	}
	_, ok := extractInlineDatasetName(d.URL)
	return ok
}
