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

// Package transforms implements §4.5: each named spec transform
// lowered to one or more algebra.DataFrame steps.
package transforms

import (
	"math"

	"github.com/dolthub/vegafusion-go/internal/vferrors"
)

// BinConfig mirrors the spec's bin transform config; zero values of
// the optional pointer fields mean "unset".
type BinConfig struct {
	Anchor  *float64
	Base    float64
	Divide  []float64
	MaxBins float64
	MinStep float64
	Nice    bool
	Step    *float64
	Steps   []float64
	Span    *float64
}

// DefaultBinConfig returns the config defaults named in §4.5: base 10,
// divide [5,2], maxbins 20, minstep 0, nice true.
func DefaultBinConfig() BinConfig {
	return BinConfig{
		Base:    10,
		Divide:  []float64{5, 2},
		MaxBins: 20,
		MinStep: 0,
		Nice:    true,
	}
}

// BinParams is a computed binning solution.
type BinParams struct {
	Start     float64
	Stop      float64
	Step      float64
	N         int64
	Precision int
	Eps       float64
}

// ComputeBinParams reproduces the §4.5 algorithm exactly, step for
// step, against its original Rust implementation's bin-parameter
// routine.
func ComputeBinParams(min, max float64, cfg BinConfig) (BinParams, error) {
	if min > max {
		return BinParams{}, vferrors.NewSpecification("bin: min (%v) > max (%v)", min, max)
	}

	// Step 2: span.
	span := 0.0
	switch {
	case cfg.Span != nil:
		span = *cfg.Span
	case max > min:
		span = max - min
	case min != 0:
		span = math.Abs(min)
	default:
		span = 1
	}

	var step float64
	switch {
	// Step 3: explicit step.
	case cfg.Step != nil:
		step = *cfg.Step
	// Step 4: pick from explicit steps.
	case len(cfg.Steps) > 0:
		minStepSize := span / cfg.MaxBins
		step = cfg.Steps[len(cfg.Steps)-1]
		for _, s := range cfg.Steps {
			if s > minStepSize {
				step = s
				break
			}
		}
	// Step 5: derive step from base/divide.
	default:
		level := math.Ceil(math.Log(cfg.MaxBins) / math.Log(cfg.Base))
		step = math.Max(cfg.MinStep, math.Pow(cfg.Base, math.Round(math.Log(span)/math.Log(cfg.Base))-level))
		for math.Ceil(span/step) > cfg.MaxBins {
			step *= cfg.Base
		}
		for _, d := range cfg.Divide {
			v := step / d
			if v >= cfg.MinStep && span/v <= cfg.MaxBins {
				step = v
			}
		}
	}

	// Step 6: precision and eps.
	precision := 0
	if math.Log(step) < 0 {
		precision = int(math.Floor(-math.Log(step)/math.Log(cfg.Base))) + 1
	}
	eps := math.Pow(cfg.Base, float64(-precision-1))

	// Steps 7-8: nice bounds.
	start, stop := min, max
	if cfg.Nice {
		minPrime := math.Floor(min/step+eps) * step
		if min < minPrime {
			minPrime -= step
		}
		maxPrime := math.Ceil(max/step) * step
		start = minPrime
		stop = maxPrime
	}
	if stop == start {
		stop = start + step
	}

	// Step 9: anchor shift.
	if cfg.Anchor != nil {
		shift := *cfg.Anchor - (start + step*math.Floor((*cfg.Anchor-start)/step))
		start += shift
		stop += shift
	}

	// Step 10: bin count.
	n := int64(math.Ceil((stop - start) / step))

	return BinParams{Start: start, Stop: stop, Step: step, N: n, Precision: precision, Eps: eps}, nil
}

// BinIndex computes the zero-based bin index for x under params,
// without boundary clamping (callers apply the ±Inf / top-bin rules
// separately via BinBoundaries).
func BinIndex(x float64, params BinParams) float64 {
	return math.Floor((x - params.Start) / params.Step)
}

// BinBoundaries computes the [as0, as1] bin edges for x, applying the
// §4.5 edge rules: values below Start map to negative infinity, values
// at or above Stop map to positive infinity, and (when integerColumn
// is set) the right edge of the top bin snaps to Stop exactly when x
// is within floating-point tolerance of it (the "approx_eq" rule for
// integer-typed bin inputs).
func BinBoundaries(x float64, params BinParams, integerColumn bool) (lo, hi float64) {
	if x < params.Start {
		return math.Inf(-1), math.Inf(-1)
	}
	if integerColumn && approxEq(x, params.Stop, params.Eps) {
		return params.Stop - params.Step, params.Stop
	}
	if x >= params.Stop {
		return math.Inf(1), math.Inf(1)
	}
	idx := BinIndex(x, params)
	lo = params.Start + idx*params.Step
	hi = lo + params.Step
	return lo, hi
}

func approxEq(a, b, eps float64) bool {
	if eps <= 0 {
		eps = 1e-9
	}
	return math.Abs(a-b) <= eps
}
