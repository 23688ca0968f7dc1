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

package wcs

import (
	"fmt"
	"math"
)

// SkyCoord - right ascension and declination, degrees, ICRS
type SkyCoord struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// PixelCoord - 0-origin position in full resolution image pixels
type PixelCoord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormaliseRA - wraps an RA into [0, 360)
func NormaliseRA(ra float64) float64 {
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	if ra >= 360 {
		ra = 0
	}
	return ra
}

// wrapDelta - wraps an RA difference into (-180, 180]
func wrapDelta(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// RADelta - signed shortest RA difference b-a, degrees in (-180, 180]
func RADelta(a, b float64) float64 {
	return wrapDelta(b - a)
}

// Separation - great circle distance in degrees (Vincenty formula, stable at all distances)
func Separation(a, b SkyCoord) float64 {
	sinD1, cosD1 := math.Sincos(toRad(a.Dec))
	sinD2, cosD2 := math.Sincos(toRad(b.Dec))
	sinDRA, cosDRA := math.Sincos(toRad(b.RA - a.RA))

	num := math.Hypot(cosD2*sinDRA, cosD1*sinD2-sinD1*cosD2*cosDRA)
	den := sinD1*sinD2 + cosD1*cosD2*cosDRA
	return toDeg(math.Atan2(num, den))
}

// Angle - an angular distance with the display unit picked for it
type Angle struct {
	Degrees float64 `json:"degrees"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
}

func (a Angle) String() string {
	return fmt.Sprintf("%.2f %v", a.Value, a.Unit)
}

// MakeAngle - arcsec under a minute, arcmin under a degree, otherwise degrees
func MakeAngle(deg float64) Angle {
	switch {
	case deg*3600 < 60:
		return Angle{Degrees: deg, Value: deg * 3600, Unit: "\""}
	case deg < 1:
		return Angle{Degrees: deg, Value: deg * 60, Unit: "'"}
	}
	return Angle{Degrees: deg, Value: deg, Unit: "°"}
}

// Measurement - what the ruler shows between two sky positions: the separation and its
// components along RA (at the start declination) and along Dec (at the start RA)
type Measurement struct {
	Separation Angle `json:"separation"`
	Horizontal Angle `json:"horizontal"`
	Vertical   Angle `json:"vertical"`
}

func Measure(from, to SkyCoord) Measurement {
	return Measurement{
		Separation: MakeAngle(Separation(from, to)),
		Horizontal: MakeAngle(Separation(from, SkyCoord{RA: to.RA, Dec: from.Dec})),
		Vertical:   MakeAngle(Separation(from, SkyCoord{RA: from.RA, Dec: to.Dec})),
	}
}

// FormatRA - hh:mm:ss.ss
func FormatRA(ra float64) string {
	centisec := int64(math.Round(NormaliseRA(ra) / 15 * 3600 * 100))
	centisec %= 24 * 3600 * 100
	h := centisec / (3600 * 100)
	m := (centisec / (60 * 100)) % 60
	s := float64(centisec%(60*100)) / 100
	return fmt.Sprintf("%02d:%02d:%05.2f", h, m, s)
}

// FormatDec - ±dd:mm:ss.s
func FormatDec(dec float64) string {
	sign := "+"
	if dec < 0 {
		sign = "-"
		dec = -dec
	}
	decisec := int64(math.Round(dec * 3600 * 10))
	d := decisec / (3600 * 10)
	m := (decisec / (60 * 10)) % 60
	s := float64(decisec%(60*10)) / 10
	return fmt.Sprintf("%v%02d:%02d:%04.1f", sign, d, m, s)
}
