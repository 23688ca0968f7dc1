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
	"math"
	"sort"
)

// SIP - Simple Imaging Polynomial distortion. Coefficients are keyed by the (p, q) powers of
// (u, v), the pixel offsets from the reference pixel. AP/BP are the optional inverse
// polynomials, only used as a starting guess when inverting.
type SIP struct {
	A  map[[2]int]float64
	B  map[[2]int]float64
	AP map[[2]int]float64
	BP map[[2]int]float64
}

type sipTerm struct {
	p, q int
	c    float64
}

// Terms are kept in a fixed order so repeated evaluations give bit-identical sums
type sipPoly []sipTerm

func compilePoly(coeffs map[[2]int]float64) sipPoly {
	result := make(sipPoly, 0, len(coeffs))
	for pq, c := range coeffs {
		if c != 0 {
			result = append(result, sipTerm{pq[0], pq[1], c})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].p != result[j].p {
			return result[i].p < result[j].p
		}
		return result[i].q < result[j].q
	})
	return result
}

func (poly sipPoly) eval(u, v float64) float64 {
	sum := 0.0
	for _, t := range poly {
		sum += t.c * math.Pow(u, float64(t.p)) * math.Pow(v, float64(t.q))
	}
	return sum
}

type sipModel struct {
	a, b, ap, bp sipPoly
}

func compileSIP(s *SIP) *sipModel {
	if s == nil {
		return nil
	}
	return &sipModel{
		a:  compilePoly(s.A),
		b:  compilePoly(s.B),
		ap: compilePoly(s.AP),
		bp: compilePoly(s.BP),
	}
}

func (m *sipModel) forward(u, v float64) (float64, float64) {
	return m.a.eval(u, v), m.b.eval(u, v)
}

// invert - finds (u, v) such that u + A(u, v) = U and v + B(u, v) = V by fixed point iteration
func (m *sipModel) invert(U, V float64) (float64, float64, bool) {
	u, v := U, V
	if len(m.ap) > 0 || len(m.bp) > 0 {
		u += m.ap.eval(U, V)
		v += m.bp.eval(U, V)
	}

	for i := 0; i < sipMaxIterations; i++ {
		du, dv := m.forward(u, v)
		nu, nv := U-du, V-dv
		if !finite(nu, nv) {
			return 0, 0, false
		}
		if math.Abs(nu-u) < sipTolerancePx && math.Abs(nv-v) < sipTolerancePx {
			return nu, nv, true
		}
		u, v = nu, nv
	}
	return u, v, false
}
