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

// Overlay markers: which catalog objects fall in the visible part of the image, and where to draw them.
package overlay

import (
	"math"

	"github.com/euniverse/core/core/catalog"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

const (
	// Points sampled along each edge of the visible rect when working out its sky footprint
	edgeSamples = 8

	// The footprint box is grown by this fraction of its size to cover the curvature of the edges
	footprintMargin = 0.02

	defaultMarkerRadius = 5.0
	semiMajorScale      = 3.0
)

// Ellipse - marker shape in image pixels. Rotation is in degrees from the x axis, clockwise as drawn
// (y down).
type Ellipse struct {
	SemiMajor   float64 `json:"semiMajor"`
	SemiMinor   float64 `json:"semiMinor"`
	RotationDeg float64 `json:"rotationDeg"`
}

// Marker - a catalog object resolved to a pixel. Only valid for the state it was resolved for.
type Marker struct {
	Entry   *catalog.Entry `json:"entry"`
	Pixel   wcs.PixelCoord `json:"pixel"`
	Ellipse Ellipse        `json:"ellipse"`
}

// MarkerEllipse - shape columns give an ellipse 3x the semi major axis, flattened by the ellipticity
// and turned by the position angle (measured from north, so 90-PA from the x axis). Objects without
// shape columns get a small circle.
func MarkerEllipse(meta catalog.Metadata) Ellipse {
	a := defaultMarkerRadius
	if meta.SemiMajorAxis != nil && *meta.SemiMajorAxis > 0 {
		a = semiMajorScale * *meta.SemiMajorAxis
	}

	b := a
	if meta.Ellipticity != nil && *meta.Ellipticity >= 0 && *meta.Ellipticity < 1 {
		b = a * (1 - *meta.Ellipticity)
	}

	pa := 0.0
	if meta.PositionAngle != nil {
		pa = *meta.PositionAngle
	}
	return Ellipse{SemiMajor: a, SemiMinor: b, RotationDeg: 90 - pa}
}

// VisibleFootprint - an RA/Dec box that contains everything in the visible rect
func VisibleFootprint(state viewport.State, solution *wcs.Solution) catalog.SkyRect {
	r := state.Visible
	center := solution.ToSky(wcs.PixelCoord{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2})

	minDRA, maxDRA := 0.0, 0.0
	minDec, maxDec := center.Dec, center.Dec

	sample := func(x, y float64) {
		s := solution.ToSky(wcs.PixelCoord{X: x, Y: y})
		d := wcs.RADelta(center.RA, s.RA)
		minDRA = math.Min(minDRA, d)
		maxDRA = math.Max(maxDRA, d)
		minDec = math.Min(minDec, s.Dec)
		maxDec = math.Max(maxDec, s.Dec)
	}

	for i := 0; i <= edgeSamples; i++ {
		f := float64(i) / edgeSamples
		x := r.MinX + f*r.Width()
		y := r.MinY + f*r.Height()
		sample(x, r.MinY)
		sample(x, r.MaxY)
		sample(r.MinX, y)
		sample(r.MaxX, y)
	}

	decPad := (maxDec-minDec)*footprintMargin + solution.PixelScaleArcsec()/3600
	raPad := (maxDRA-minDRA)*footprintMargin + solution.PixelScaleArcsec()/3600/math.Max(1e-6, math.Cos(center.Dec*math.Pi/180))
	fp := catalog.SkyRect{
		RAMin:  center.RA + minDRA - raPad,
		RAMax:  center.RA + maxDRA + raPad,
		DecMin: math.Max(-90, minDec-decPad),
		DecMax: math.Min(90, maxDec+decPad),
	}

	// A pole on screen means every RA is in view
	for _, pole := range []float64{90, -90} {
		if p, err := solution.ToPixel(wcs.SkyCoord{RA: 0, Dec: pole}); err == nil && r.Contains(p) {
			fp.RAMin, fp.RAMax = 0, 360
			if pole > 0 {
				fp.DecMax = 90
			} else {
				fp.DecMin = -90
			}
		}
	}

	if fp.RAMax-fp.RAMin >= 360 {
		fp.RAMin, fp.RAMax = 0, 360
		return fp
	}

	fp.RAMin = wcs.NormaliseRA(fp.RAMin)
	fp.RAMax = wcs.NormaliseRA(fp.RAMax)
	return fp
}

// Resolve - markers for every catalog entry inside the visible rect (edges included), in entry ID
// order. Entries that don't project are skipped.
func Resolve(state viewport.State, solution *wcs.Solution, index *catalog.Index) []Marker {
	result := []Marker{}
	if index == nil {
		return result
	}

	for _, e := range index.Query(VisibleFootprint(state, solution)) {
		p, err := solution.ToPixel(e.Sky)
		if err != nil || !state.Visible.Contains(p) {
			continue
		}
		result = append(result, Marker{Entry: e, Pixel: p, Ellipse: MarkerEllipse(e.Meta)})
	}
	return result
}
