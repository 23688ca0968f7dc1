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

// Astrometric solution for a loaded image: maps pixel-plane positions to sky
// coordinates (ICRS, degrees) and back, using a gnomonic (TAN) projection with
// optional SIP distortion polynomials.
package wcs

import (
	"math"

	"github.com/euniverse/core/core/engineerror"
)

// Projection - only the gnomonic projection is supported, as used by the mosaics we load
type Projection string

const ProjectionTAN Projection = "TAN"

// cos(c) at or below this is on/behind the tangent plane horizon
const horizonCosLimit = 1e-10

const sipMaxIterations = 50
const sipTolerancePx = 1e-10

// Params - what's needed to build a Solution. Pixel coordinates are 0-origin, x to the
// right, y down the image rows.
type Params struct {
	RefPixel PixelCoord
	RefSky   SkyCoord

	// CD matrix, degrees per pixel: [0] = (CD1_1, CD1_2), [1] = (CD2_1, CD2_2)
	CD [2][2]float64

	Projection Projection
	Distortion *SIP

	// Set if the solution counts rows bottom-up but our rows go top-down. Height is then
	// required to convert.
	FlipY  bool
	Height int
}

// Solution - immutable once built, safe to share between goroutines
type Solution struct {
	params Params
	cdInv  [2][2]float64
	sip    *sipModel

	ra0, dec0        float64 // radians
	sinDec0, cosDec0 float64
}

// NewSolution - validates the parameters and precomputes what the transforms need
func NewSolution(p Params) (*Solution, error) {
	if p.Projection == "" {
		p.Projection = ProjectionTAN
	}
	if p.Projection != ProjectionTAN {
		return nil, engineerror.Configuration("unsupported projection: %v", p.Projection)
	}
	if !finite(p.RefPixel.X, p.RefPixel.Y, p.RefSky.RA, p.RefSky.Dec, p.CD[0][0], p.CD[0][1], p.CD[1][0], p.CD[1][1]) {
		return nil, engineerror.Configuration("non-finite astrometric parameters")
	}
	if p.RefSky.Dec < -90 || p.RefSky.Dec > 90 {
		return nil, engineerror.Configuration("reference declination out of range: %v", p.RefSky.Dec)
	}
	if p.FlipY && p.Height <= 0 {
		return nil, engineerror.Configuration("image height required to flip y")
	}

	det := p.CD[0][0]*p.CD[1][1] - p.CD[0][1]*p.CD[1][0]
	if det == 0 || math.IsNaN(det) {
		return nil, engineerror.Configuration("singular CD matrix")
	}

	s := &Solution{params: p, sip: compileSIP(p.Distortion)}
	s.cdInv = [2][2]float64{
		{p.CD[1][1] / det, -p.CD[0][1] / det},
		{-p.CD[1][0] / det, p.CD[0][0] / det},
	}

	s.ra0 = toRad(p.RefSky.RA)
	s.dec0 = toRad(p.RefSky.Dec)
	s.sinDec0, s.cosDec0 = math.Sincos(s.dec0)
	return s, nil
}

// FromScaleRotation - builds a distortion free solution from a pixel scale and rotation
// (measured like FITS CROTA2, counter clockwise, degrees). East is to the left.
func FromScaleRotation(refPixel PixelCoord, refSky SkyCoord, scaleArcsec float64, rotationDeg float64) (*Solution, error) {
	if !(scaleArcsec > 0) {
		return nil, engineerror.Configuration("pixel scale must be positive, got %v", scaleArcsec)
	}

	scale := scaleArcsec / 3600
	sinR, cosR := math.Sincos(toRad(rotationDeg))
	return NewSolution(Params{
		RefPixel: refPixel,
		RefSky:   refSky,
		CD: [2][2]float64{
			{-scale * cosR, scale * sinR},
			{scale * sinR, scale * cosR},
		},
	})
}

func (s *Solution) Params() Params {
	return s.params
}

// PixelScaleArcsec - mean pixel scale, from the CD matrix determinant
func (s *Solution) PixelScaleArcsec() float64 {
	cd := s.params.CD
	return math.Sqrt(math.Abs(cd[0][0]*cd[1][1]-cd[0][1]*cd[1][0])) * 3600
}

// RotationDeg - rotation of the y axis from north
func (s *Solution) RotationDeg() float64 {
	return toDeg(math.Atan2(s.params.CD[1][0], s.params.CD[1][1]))
}

// ToSky - pixel to sky. Never fails, RA comes back in [0, 360)
func (s *Solution) ToSky(p PixelCoord) SkyCoord {
	u := p.X - s.params.RefPixel.X
	v := s.wcsY(p.Y) - s.params.RefPixel.Y

	if s.sip != nil {
		du, dv := s.sip.forward(u, v)
		u, v = u+du, v+dv
	}

	cd := s.params.CD
	xi := toRad(float64(cd[0][0]*u) + float64(cd[0][1]*v))
	eta := toRad(float64(cd[1][0]*u) + float64(cd[1][1]*v))

	denom := float64(s.cosDec0) - float64(eta*s.sinDec0)
	ra := s.ra0 + math.Atan2(xi, denom)
	dec := math.Atan2(float64(s.sinDec0)+float64(eta*s.cosDec0), math.Hypot(xi, denom))

	return SkyCoord{RA: NormaliseRA(toDeg(ra)), Dec: toDeg(dec)}
}

// ToPixel - sky to pixel. Fails with ErrOutOfFootprint if the point can't be projected onto
// the tangent plane (90 degrees or more from the reference point), or the distortion can't
// be inverted there. Note that the pixel returned may still lie outside the image bounds.
func (s *Solution) ToPixel(sky SkyCoord) (PixelCoord, error) {
	if !finite(sky.RA, sky.Dec) || sky.Dec < -90 || sky.Dec > 90 {
		return PixelCoord{}, engineerror.OutOfFootprint("invalid sky coordinate (%v, %v)", sky.RA, sky.Dec)
	}

	dRA := toRad(wrapDelta(sky.RA - s.params.RefSky.RA))
	sinDRA, cosDRA := math.Sincos(dRA)
	sinDec, cosDec := math.Sincos(toRad(sky.Dec))

	// Explicit float64() conversions stop the compiler fusing these into FMAs, so the
	// reference sky coordinate lands exactly on the reference pixel.
	cosC := float64(s.sinDec0*sinDec) + float64(s.cosDec0*cosDec*cosDRA)
	if !(cosC > horizonCosLimit) {
		return PixelCoord{}, engineerror.OutOfFootprint("sky (%v, %v) is beyond the projection horizon", sky.RA, sky.Dec)
	}

	xi := toDeg(cosDec * sinDRA / cosC)
	eta := toDeg((float64(s.cosDec0*sinDec) - float64(s.sinDec0*cosDec*cosDRA)) / cosC)

	u := float64(s.cdInv[0][0]*xi) + float64(s.cdInv[0][1]*eta)
	v := float64(s.cdInv[1][0]*xi) + float64(s.cdInv[1][1]*eta)

	if s.sip != nil {
		var ok bool
		u, v, ok = s.sip.invert(u, v)
		if !ok {
			return PixelCoord{}, engineerror.OutOfFootprint("distortion did not converge for sky (%v, %v)", sky.RA, sky.Dec)
		}
	}

	x := s.params.RefPixel.X + u
	y := s.params.RefPixel.Y + v
	if !finite(x, y) {
		return PixelCoord{}, engineerror.OutOfFootprint("sky (%v, %v) has no pixel position", sky.RA, sky.Dec)
	}
	return PixelCoord{X: x, Y: s.wcsY(y)}, nil
}

// The y flip is its own inverse, so it's used in both directions
func (s *Solution) wcsY(y float64) float64 {
	if s.params.FlipY {
		return float64(s.params.Height-1) - y
	}
	return y
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
