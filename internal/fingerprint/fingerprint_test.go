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

package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedFloatCanonicalizesZero(t *testing.T) {
	require := require.New(t)
	require.Equal(orderedFloat(0.0), orderedFloat(math.Copysign(0, -1)))
}

func TestOrderedFloatCanonicalizesNaN(t *testing.T) {
	require := require.New(t)
	a := math.NaN()
	b := math.Float64frombits(math.Float64bits(math.NaN()) | 0x1)
	require.Equal(orderedFloat(a), orderedFloat(b))
}

func TestOrderedFloatPreservesOrder(t *testing.T) {
	require := require.New(t)
	require.Less(orderedFloat(-5.0), orderedFloat(-1.0))
	require.Less(orderedFloat(-1.0), orderedFloat(0.0))
	require.Less(orderedFloat(0.0), orderedFloat(1.0))
	require.Less(orderedFloat(1.0), orderedFloat(5.0))
}

func TestHash64DeterministicAcrossZeroSign(t *testing.T) {
	require := require.New(t)

	h1, err := Hash64(map[string]interface{}{"step": 0.0})
	require.NoError(err)
	h2, err := Hash64(map[string]interface{}{"step": math.Copysign(0, -1)})
	require.NoError(err)
	require.Equal(h1, h2)
}

func TestHash64DiffersOnPayloadChange(t *testing.T) {
	require := require.New(t)

	h1, err := Hash64(map[string]interface{}{"field": "x"})
	require.NoError(err)
	h2, err := Hash64(map[string]interface{}{"field": "y"})
	require.NoError(err)
	require.NotEqual(h1, h2)
}

func TestCombineIsOrderSensitive(t *testing.T) {
	require := require.New(t)

	a, err := Combine(1, 2, 3)
	require.NoError(err)
	b, err := Combine(3, 2, 1)
	require.NoError(err)
	require.NotEqual(a, b)
}
