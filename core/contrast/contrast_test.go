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

package contrast

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
)

func Example_validate() {
	fmt.Println(Params{Lower: 0, Upper: 10, Stretch: StretchLog}.Validate())
	fmt.Println(Params{Lower: 10, Upper: 10, Stretch: StretchLog}.Validate())
	fmt.Println(Params{Lower: 0, Upper: math.Inf(1), Stretch: StretchLog}.Validate())
	fmt.Println(Params{Lower: 0, Upper: 1, Stretch: "zscale"}.Validate())
	err := Params{Lower: 0, Upper: 1, Stretch: StretchSqrt, BandScale: []float64{1, 0}}.Validate()
	fmt.Println(err, errors.Is(err, engineerror.ErrConfiguration))
	fmt.Println(Stretches())

	// Output:
	// <nil>
	// contrast upper bound 10 must be above lower bound 10: configuration error
	// contrast bounds must be finite, got 0..+Inf: configuration error
	// unknown stretch: zscale: configuration error
	// band 1 scale must be positive and finite, got 0: configuration error true
	// [asinh linear log sqrt squared]
}

func Example_apply() {
	p := Params{Lower: 100, Upper: 200, Stretch: StretchLinear, BandScale: []float64{1, 2}}
	fmt.Println(Apply(50, 0, p), Apply(100, 0, p), Apply(150, 0, p), Apply(250, 0, p), Apply(math.NaN(), 0, p))
	fmt.Println(Apply(75, 1, p), ApplyByte(150, 0, p), ApplyByte(1000, 0, p))

	for _, s := range Stretches() {
		p.Stretch = s
		fmt.Printf("%v: %v %v %.4f\n", s, Apply(100, 0, p), Apply(200, 0, p), Apply(125, 0, p))
	}

	// Output:
	// 0 0 0.5 1 0
	// 0.5 128 255
	// asinh: 0 1 0.5494
	// linear: 0 1 0.2500
	// log: 0 1 0.7998
	// sqrt: 0 1 0.5000
	// squared: 0 1 0.0625
}

func Test_ApplyIsMonotonic(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for _, s := range Stretches() {
		for trial := 0; trial < 50; trial++ {
			lower := rnd.Float64()*2000 - 1000
			p := Params{Lower: lower, Upper: lower + 1 + rnd.Float64()*500, Stretch: s, BandScale: []float64{0.5 + rnd.Float64()}}
			if err := p.Validate(); err != nil {
				t.Fatal(err)
			}

			raws := make([]float64, 200)
			for c := range raws {
				raws[c] = rnd.Float64()*4000 - 2000
			}
			sort.Float64s(raws)

			prev := -1.0
			for _, raw := range raws {
				v := Apply(raw, 0, p)
				if v < prev || v < 0 || v > 1 {
					t.Fatalf("%v stretch: got %v after %v for raw %v", s, v, prev, raw)
				}
				prev = v
			}
		}
	}
}

func Test_LUTMatchesApplyByte(t *testing.T) {
	pl, err := NewPipeline(DefaultParams(), &logger.NullLogger{})
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range Stretches() {
		p := Params{Lower: 1000, Upper: 40000, Stretch: s, BandScale: []float64{1, 1.5}}
		for band := 0; band < 2; band++ {
			lut := pl.LUT(p, band)
			for v := 0; v < len(lut); v += 7 {
				if want := ApplyByte(float64(v), band, p); lut[v] != want {
					t.Fatalf("%v band %v sample %v: got %v; want: %v", s, band, v, lut[v], want)
				}
			}
		}
	}

	p := DefaultParams()
	if pl.LUT(p, 0) != pl.LUT(p, 0) {
		t.Errorf("expected the cached table to be reused")
	}
}

func Example_setParamsKeepsPreviousOnError() {
	l := &logger.MemLogger{}
	pl, _ := NewPipeline(Params{Lower: 0, Upper: 100, Stretch: StretchSqrt}, l)

	fmt.Println(pl.SetParams(Params{Lower: 5, Upper: 1, Stretch: StretchLinear}))
	fmt.Printf("%+v\n", pl.Params())

	fmt.Println(pl.SetParams(Params{Lower: 1, Upper: 5, Stretch: StretchAsinh}))
	fmt.Printf("%+v\n", pl.Params())
	fmt.Println(l.Lines())

	_, err := NewPipeline(Params{}, l)
	fmt.Println(err)

	// Output:
	// contrast upper bound 1 must be above lower bound 5: configuration error
	// {Lower:0 Upper:100 Stretch:sqrt BandScale:[]}
	// <nil>
	// {Lower:1 Upper:5 Stretch:asinh BandScale:[]}
	// [ERROR: Rejected contrast params: contrast upper bound 1 must be above lower bound 5: configuration error DEBUG: Contrast set to 1..5, asinh stretch]
	// contrast upper bound 0 must be above lower bound 0: configuration error
}

func Example_renderRaster() {
	pl, _ := NewPipeline(Params{Lower: 0, Upper: 100, Stretch: StretchLinear}, &logger.NullLogger{})

	grey := raster.New(2, 1, 1)
	grey.Pix = []float32{50, 100.5}
	img := pl.RenderRaster(grey)
	fmt.Println(img.Pix)

	two := raster.New(1, 1, 2)
	two.Pix = []float32{100, 0}
	fmt.Println(pl.RenderRaster(two).Pix)

	four := raster.New(1, 1, 4)
	four.Pix = []float32{10, 20, 30, 40}
	fmt.Println(pl.RenderRaster(four).Pix)

	// Output:
	// [128 128 128 255 255 255 255 255]
	// [255 0 128 255]
	// [26 51 77 255]
}

func Example_autoClip() {
	r := raster.New(10, 10, 1)
	for c := range r.Pix {
		r.Pix[c] = float32(99 - c)
	}
	r.Pix[5] = float32(math.NaN())

	fmt.Println(AutoClip(r, 2, 98))

	flat := raster.New(3, 3, 1)
	fmt.Println(AutoClip(flat, 0, 100))
	fmt.Println(AutoClip(flat, 50, 10))

	// Output:
	// 1 98 <nil>
	// 0 1 <nil>
	// 0 0 invalid auto clip percentiles 50..10: configuration error
}
