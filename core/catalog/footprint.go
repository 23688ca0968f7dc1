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

package catalog

import (
	"math"

	"github.com/euniverse/core/core/wcs"
)

// Box - RA/Dec range that doesn't wrap, degrees, edges included
type Box struct {
	RAMin  float64
	RAMax  float64
	DecMin float64
	DecMax float64
}

// Footprint - a region of sky. Boxes must cover everything Contains accepts, they're used to search
// the index and hits are then checked against Contains.
type Footprint interface {
	Contains(s wcs.SkyCoord) bool
	Boxes() []Box
}

// SkyRect - RA/Dec box. If RAMin > RAMax the box wraps through RA 0, eg 350..10.
type SkyRect struct {
	RAMin  float64 `json:"raMin"`
	RAMax  float64 `json:"raMax"`
	DecMin float64 `json:"decMin"`
	DecMax float64 `json:"decMax"`
}

// FullRA - covers every RA
func (r SkyRect) FullRA() bool {
	return r.RAMin <= 0 && r.RAMax >= 360
}

func (r SkyRect) Contains(s wcs.SkyCoord) bool {
	if s.Dec < r.DecMin || s.Dec > r.DecMax {
		return false
	}
	if r.FullRA() {
		return true
	}

	ra := wcs.NormaliseRA(s.RA)
	if r.RAMin <= r.RAMax {
		return ra >= r.RAMin && ra <= r.RAMax
	}
	return ra >= r.RAMin || ra <= r.RAMax
}

func (r SkyRect) Boxes() []Box {
	if r.FullRA() {
		return []Box{{RAMin: 0, RAMax: 360, DecMin: r.DecMin, DecMax: r.DecMax}}
	}
	if r.RAMin <= r.RAMax {
		return []Box{{RAMin: r.RAMin, RAMax: r.RAMax, DecMin: r.DecMin, DecMax: r.DecMax}}
	}
	return []Box{
		{RAMin: r.RAMin, RAMax: 360, DecMin: r.DecMin, DecMax: r.DecMax},
		{RAMin: 0, RAMax: r.RAMax, DecMin: r.DecMin, DecMax: r.DecMax},
	}
}

// SkyCircle - everything within RadiusDeg (great circle distance) of Center
type SkyCircle struct {
	Center    wcs.SkyCoord `json:"center"`
	RadiusDeg float64      `json:"radiusDeg"`
}

func (c SkyCircle) Contains(s wcs.SkyCoord) bool {
	return wcs.Separation(c.Center, s) <= c.RadiusDeg
}

// Boxes - the RA half width of a cap is asin(sin r / cos dec), if the cap reaches a pole it needs
// every RA
func (c SkyCircle) Boxes() []Box {
	const pad = 1e-9

	decMin := c.Center.Dec - c.RadiusDeg
	decMax := c.Center.Dec + c.RadiusDeg
	if decMax >= 90 || decMin <= -90 {
		return SkyRect{RAMin: 0, RAMax: 360, DecMin: math.Max(-90, decMin), DecMax: math.Min(90, decMax)}.Boxes()
	}

	s := math.Sin(c.RadiusDeg*math.Pi/180) / math.Cos(c.Center.Dec*math.Pi/180)
	if s >= 1 {
		return SkyRect{RAMin: 0, RAMax: 360, DecMin: decMin, DecMax: decMax}.Boxes()
	}

	half := math.Asin(s)*180/math.Pi + pad
	if half >= 180 {
		return SkyRect{RAMin: 0, RAMax: 360, DecMin: decMin, DecMax: decMax}.Boxes()
	}

	ra := wcs.NormaliseRA(c.Center.RA)
	raMin := wcs.NormaliseRA(ra - half)
	raMax := wcs.NormaliseRA(ra + half)
	return SkyRect{RAMin: raMin, RAMax: raMax, DecMin: decMin, DecMax: decMax}.Boxes()
}
