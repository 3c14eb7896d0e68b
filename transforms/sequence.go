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

import "github.com/dolthub/vegafusion-go/internal/vferrors"

// Sequence computes the §4.5 Sequence transform's output column
// directly: it is a closed-form numeric progression, not derived from
// any existing table, so it needs no algebra.DataFrame step.
func Sequence(start, stop, step float64) ([]float64, error) {
	if step == 0 {
		return nil, vferrors.NewSpecification("sequence: step must be non-zero")
	}
	var out []float64
	if step > 0 {
		for v := start; v < stop; v += step {
			out = append(out, v)
		}
	} else {
		for v := start; v > stop; v += step {
			out = append(out, v)
		}
	}
	return out, nil
}
