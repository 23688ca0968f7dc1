// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Maps raw samples to display intensities: a linear window (Lower..Upper, with a per-band scale)
// followed by a stretch, clipped to [0, 1] as the very last step.
package contrast

import (
	"math"
	"sort"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/raster"
	"gonum.org/v1/gonum/stat"
)

type Stretch string

const (
	StretchLinear  Stretch = "linear"
	StretchLog     Stretch = "log"
	StretchSqrt    Stretch = "sqrt"
	StretchAsinh   Stretch = "asinh"
	StretchSquared Stretch = "squared"
)

// Softening constants for log and asinh, the usual defaults in astronomy viewers
const (
	logA   = 1000.0
	asinhK = 10.0
)

// Every stretch is odd, strictly increasing on the whole real line, and maps 0->0, 1->1. Applying
// them before the clip is what keeps the pipeline monotonic.
var stretches = map[Stretch]func(float64) float64{
	StretchLinear: func(t float64) float64 {
		return t
	},
	StretchLog: func(t float64) float64 {
		return math.Copysign(math.Log1p(logA*math.Abs(t))/math.Log1p(logA), t)
	},
	StretchSqrt: func(t float64) float64 {
		return math.Copysign(math.Sqrt(math.Abs(t)), t)
	},
	StretchAsinh: func(t float64) float64 {
		return math.Asinh(asinhK*t) / math.Asinh(asinhK)
	},
	StretchSquared: func(t float64) float64 {
		return t * math.Abs(t)
	},
}

// Stretches - names accepted in Params.Stretch, sorted
func Stretches() []Stretch {
	result := make([]Stretch, 0, len(stretches))
	for s := range stretches {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Params - BandScale multiplies raw samples of each band before windowing. Empty, or missing entries,
// mean 1.
type Params struct {
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
	Stretch   Stretch   `json:"stretch"`
	BandScale []float64 `json:"bandScale,omitempty"`
}

func DefaultParams() Params {
	return Params{Lower: 0, Upper: 255, Stretch: StretchLinear}
}

func (p Params) Validate() error {
	if math.IsNaN(p.Lower) || math.IsInf(p.Lower, 0) || math.IsNaN(p.Upper) || math.IsInf(p.Upper, 0) {
		return engineerror.Configuration("contrast bounds must be finite, got %v..%v", p.Lower, p.Upper)
	}
	if p.Upper <= p.Lower {
		return engineerror.Configuration("contrast upper bound %v must be above lower bound %v", p.Upper, p.Lower)
	}
	if _, ok := stretches[p.Stretch]; !ok {
		return engineerror.Configuration("unknown stretch: %v", p.Stretch)
	}
	for c, s := range p.BandScale {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return engineerror.Configuration("band %v scale must be positive and finite, got %v", c, s)
		}
	}
	return nil
}

func (p Params) scale(band int) float64 {
	if band >= 0 && band < len(p.BandScale) {
		return p.BandScale[band]
	}
	return 1
}

// Apply - display value in [0, 1] for a raw sample. p must have passed Validate. Non-finite samples
// show as black.
func Apply(raw float64, band int, p Params) float64 {
	t := (raw*p.scale(band) - p.Lower) / (p.Upper - p.Lower)
	s := stretches[p.Stretch](t)

	if math.IsNaN(s) || s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return s
}

func ApplyByte(raw float64, band int, p Params) uint8 {
	return uint8(math.Round(Apply(raw, band, p) * 255))
}

// AutoClip - picks Lower/Upper at the given percentiles (0-100) of all finite samples in r
func AutoClip(r *raster.Raster, lowPct, highPct float64) (float64, float64, error) {
	if lowPct < 0 || highPct > 100 || lowPct >= highPct {
		return 0, 0, engineerror.Configuration("invalid auto clip percentiles %v..%v", lowPct, highPct)
	}

	samples := make([]float64, 0, len(r.Pix))
	for _, v := range r.Pix {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			samples = append(samples, f)
		}
	}
	if len(samples) == 0 {
		return 0, 0, engineerror.Configuration("no finite samples to auto clip")
	}

	sort.Float64s(samples)
	lower := stat.Quantile(lowPct/100, stat.Empirical, samples, nil)
	upper := stat.Quantile(highPct/100, stat.Empirical, samples, nil)

	// Flat images still need a usable window
	if upper <= lower {
		upper = lower + 1
	}
	return lower, upper, nil
}
