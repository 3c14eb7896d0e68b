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

// Package fingerprint computes the deterministic 64-bit task
// fingerprints described in spec §3 and §9. It canonicalizes float64
// values under total ordering before hashing with hashstructure, so
// that NaN, -0.0, and +0.0 hash stably (never hash raw IEEE bits
// directly).
package fingerprint

import (
	"math"

	"github.com/mitchellh/hashstructure"
)

// orderedFloat is the total-order bit pattern of an IEEE-754 float64:
// for non-negative values the sign bit is simply set, for negative
// values every bit is flipped. This maps float64's bit pattern onto an
// order-preserving uint64, collapsing the two zero encodings and
// giving NaN a single canonical value.
func orderedFloat(v float64) uint64 {
	if math.IsNaN(v) {
		// Canonicalize every NaN encoding (signaling, quiet, any
		// payload) to the same fingerprint input.
		v = math.NaN()
	}
	if v == 0 {
		// Canonicalize +0.0 and -0.0 to the same bit pattern.
		v = 0
	}
	bits := math.Float64bits(v)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

// canonicalize walks a value tree replacing every float64 (and
// []float64) with its total-order encoding so hashstructure.Hash sees
// a stable representation regardless of sign-of-zero or NaN payload.
func canonicalize(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		return orderedFloat(t)
	case []float64:
		out := make([]uint64, len(t))
		for i, f := range t {
			out[i] = orderedFloat(f)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = canonicalize(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = canonicalize(e)
		}
		return out
	default:
		return v
	}
}

// Hash64 hashes payload (after float canonicalization) into a
// deterministic 64-bit fingerprint using hashstructure, the same
// library the engine depends on for its own structural hashing.
func Hash64(payload interface{}) (uint64, error) {
	return hashstructure.Hash(canonicalize(payload), nil)
}

// Combine folds additional seeds into a base fingerprint, used to
// build id_fingerprint = hash(task_kind_identity, inputs' id_fingerprints)
// and state_fingerprint = hash(id_fingerprint, task_payload_state).
func Combine(seeds ...uint64) (uint64, error) {
	return hashstructure.Hash(seeds, nil)
}
