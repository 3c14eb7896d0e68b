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
	"encoding/json"
	"time"

	"github.com/dolthub/vegafusion-go/chartspec"
)

// destringifySelectionDatetimes implements pre_transform_spec's last
// step: a Vega selection-store signal (an interval or point selection
// bound to a temporal field) round-trips its stored field values as
// JSON, which can only carry an RFC3339 string for a datetime rather
// than Vega's native epoch-millisecond number. This walks every
// signal's spliced Value looking for strings that parse as RFC3339
// and rewrites them to epoch milliseconds in place, recursively
// through arrays and objects, so client-side expressions that compare
// a selection's stored field against a mark's datum see a number on
// both sides.
//
// Known simplification: the original's destringify_selection_datetimes
// pass (vegafusion-core/src/planning) is not present in this module's
// retrieval pack, so this is a best-effort reimplementation from its
// name and the date-parsing conventions the pack's date_parsing.rs
// shows rather than a direct port: it targets every signal value
// uniformly instead of only values a selection's compound signal
// definition marks as temporal.
func destringifySelectionDatetimes(spec *chartspec.Spec) {
	w := walk(spec)
	for _, ref := range w.signals {
		if len(ref.signal.Value) == 0 {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(ref.signal.Value, &v); err != nil {
			continue
		}
		rewritten, changed := destringifyValue(v)
		if !changed {
			continue
		}
		if raw, err := json.Marshal(rewritten); err == nil {
			ref.signal.Value = raw
		}
	}
}

func destringifyValue(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case string:
		if ms, ok := parseRFC3339Millis(x); ok {
			return ms, true
		}
		return x, false
	case []interface{}:
		changed := false
		out := make([]interface{}, len(x))
		for i, el := range x {
			rewritten, ok := destringifyValue(el)
			out[i] = rewritten
			changed = changed || ok
		}
		return out, changed
	case map[string]interface{}:
		changed := false
		out := make(map[string]interface{}, len(x))
		for k, el := range x {
			rewritten, ok := destringifyValue(el)
			out[k] = rewritten
			changed = changed || ok
		}
		return out, changed
	default:
		return v, false
	}
}

func parseRFC3339Millis(s string) (float64, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, false
	}
	return float64(t.UnixMilli()), true
}
