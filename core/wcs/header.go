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
	"strconv"
	"strings"

	"github.com/euniverse/core/core/engineerror"
)

// Header - FITS style keyword/value pairs, as found in the JSON metadata our mosaics carry
// in their TIFF image description. Values are typically float64 or string (JSON decoded).
type Header map[string]interface{}

func (h Header) number(key string) (float64, bool, error) {
	val, ok := h[key]
	if !ok {
		return 0, false, nil
	}

	switch v := val.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false, fmt.Errorf("header %v is not numeric: %q", key, v)
		}
		return f, true, nil
	}
	return 0, false, fmt.Errorf("header %v has unexpected type %T", key, val)
}

func (h Header) requireNumber(key string) (float64, error) {
	v, ok, err := h.number(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("header %v missing", key)
	}
	return v, nil
}

func (h Header) numberOr(key string, def float64) (float64, error) {
	v, ok, err := h.number(key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// ParamsFromHeader - reads CRPIX/CRVAL and either a CD matrix or CDELT+CROTA2, plus SIP terms
// if CTYPE says so. CRPIX is 1-origin in the header, converted to our 0-origin pixels here.
func ParamsFromHeader(h Header) (Params, error) {
	var p Params

	fail := func(err error) (Params, error) {
		return Params{}, engineerror.Configuration("%v", err)
	}

	ctype1, _ := h["CTYPE1"].(string)
	ctype2, _ := h["CTYPE2"].(string)
	for _, ct := range []string{ctype1, ctype2} {
		if len(ct) > 0 && !strings.Contains(ct, "-TAN") {
			return Params{}, engineerror.Configuration("unsupported CTYPE: %v", ct)
		}
	}

	var err error
	if p.RefPixel.X, err = h.requireNumber("CRPIX1"); err != nil {
		return fail(err)
	}
	if p.RefPixel.Y, err = h.requireNumber("CRPIX2"); err != nil {
		return fail(err)
	}
	p.RefPixel.X -= 1
	p.RefPixel.Y -= 1

	if p.RefSky.RA, err = h.requireNumber("CRVAL1"); err != nil {
		return fail(err)
	}
	if p.RefSky.Dec, err = h.requireNumber("CRVAL2"); err != nil {
		return fail(err)
	}

	if _, hasCD, _ := h.number("CD1_1"); hasCD {
		keys := [2][2]string{{"CD1_1", "CD1_2"}, {"CD2_1", "CD2_2"}}
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				if p.CD[r][c], err = h.numberOr(keys[r][c], 0); err != nil {
					return fail(err)
				}
			}
		}
	} else {
		cdelt1, err := h.requireNumber("CDELT1")
		if err != nil {
			return fail(err)
		}
		cdelt2, err := h.requireNumber("CDELT2")
		if err != nil {
			return fail(err)
		}
		crota, err := h.numberOr("CROTA2", 0)
		if err != nil {
			return fail(err)
		}
		sinR, cosR := math.Sincos(toRad(crota))
		p.CD = [2][2]float64{
			{cdelt1 * cosR, -cdelt2 * sinR},
			{cdelt1 * sinR, cdelt2 * cosR},
		}
	}

	if strings.HasSuffix(ctype1, "-SIP") || strings.HasSuffix(ctype2, "-SIP") {
		sip := &SIP{}
		if sip.A, err = readSIPPoly(h, "A"); err != nil {
			return fail(err)
		}
		if sip.B, err = readSIPPoly(h, "B"); err != nil {
			return fail(err)
		}
		if sip.AP, err = readSIPPoly(h, "AP"); err != nil {
			return fail(err)
		}
		if sip.BP, err = readSIPPoly(h, "BP"); err != nil {
			return fail(err)
		}
		p.Distortion = sip
	}

	return p, nil
}

func readSIPPoly(h Header, prefix string) (map[[2]int]float64, error) {
	order, ok, err := h.number(prefix + "_ORDER")
	if err != nil || !ok {
		return nil, err
	}

	result := map[[2]int]float64{}
	n := int(order)
	for p := 0; p <= n; p++ {
		for q := 0; q+p <= n; q++ {
			c, ok, err := h.number(fmt.Sprintf("%v_%v_%v", prefix, p, q))
			if err != nil {
				return nil, err
			}
			if ok {
				result[[2]int{p, q}] = c
			}
		}
	}
	return result, nil
}

// FromHeader - builds a solution from header keywords. If flipHeight > 0 the header is taken
// to count rows bottom-up for an image of that height.
func FromHeader(h Header, flipHeight int) (*Solution, error) {
	p, err := ParamsFromHeader(h)
	if err != nil {
		return nil, err
	}
	if flipHeight > 0 {
		p.FlipY = true
		p.Height = flipHeight
	}
	return NewSolution(p)
}
