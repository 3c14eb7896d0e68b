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

package taskgraph

import "github.com/dolthub/vegafusion-go/internal/fingerprint"

// idFingerprint hashes a task's kind identity together with the
// id_fingerprints of its resolved inputs (in edge order), per §3: two
// tasks of the same kind fed the same upstream identities share an
// id_fingerprint regardless of their own payload state.
func idFingerprint(kind Kind, inputFingerprints []uint64) (uint64, error) {
	seeds := make([]uint64, 0, len(inputFingerprints)+1)
	kindSeed, err := fingerprint.Hash64(kind.String())
	if err != nil {
		return 0, err
	}
	seeds = append(seeds, kindSeed)
	seeds = append(seeds, inputFingerprints...)
	return fingerprint.Combine(seeds...)
}

// stateFingerprint folds a task's id_fingerprint together with its
// payload state, per §3: two nodes sharing an id_fingerprint but with
// different payload parameters (e.g. different bin extents) get
// distinct cache entries.
func stateFingerprint(id uint64, payload interface{}) (uint64, error) {
	payloadSeed, err := fingerprint.Hash64(payload)
	if err != nil {
		return 0, err
	}
	return fingerprint.Combine(id, payloadSeed)
}
