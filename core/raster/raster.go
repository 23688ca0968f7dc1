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

// Standalone sample arrays: tile payloads, cutouts and region reads all use
// Raster so nothing downstream depends on an image library's pixel layout.
package raster

import (
	"fmt"
	"image"
	"math"
)

// Raster - Width x Height x Bands float32 samples, band interleaved, row major
type Raster struct {
	Width  int
	Height int
	Bands  int
	Pix    []float32
}

func New(width, height, bands int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{Width: width, Height: height, Bands: bands, Pix: make([]float32, width*height*bands)}
}

func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * r.Bands
}

func (r *Raster) At(x, y, band int) float32 {
	return r.Pix[r.offset(x, y)+band]
}

func (r *Raster) Set(x, y, band int, v float32) {
	r.Pix[r.offset(x, y)+band] = v
}

// Pixel - slice of all bands at (x, y). Shares memory with the raster.
func (r *Raster) Pixel(x, y int) []float32 {
	o := r.offset(x, y)
	return r.Pix[o : o+r.Bands]
}

// SizeBytes - memory used by the samples
func (r *Raster) SizeBytes() int64 {
	return int64(len(r.Pix)) * 4
}

func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

func (r *Raster) Clone() *Raster {
	c := &Raster{Width: r.Width, Height: r.Height, Bands: r.Bands, Pix: make([]float32, len(r.Pix))}
	copy(c.Pix, r.Pix)
	return c
}

// Equal - same shape and bit-identical samples (NaN compares by bits too)
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Width != o.Width || r.Height != o.Height || r.Bands != o.Bands || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i, v := range r.Pix {
		if math.Float32bits(v) != math.Float32bits(o.Pix[i]) {
			return false
		}
	}
	return true
}

// CopyFrom - copies the part of src inside srcRect to dst at dstPt. Both are clipped so
// nothing outside either raster is touched. Band counts must match.
func (r *Raster) CopyFrom(src *Raster, srcRect image.Rectangle, dstPt image.Point) error {
	if src.Bands != r.Bands {
		return fmt.Errorf("band count mismatch: %v vs %v", src.Bands, r.Bands)
	}

	srcRect = srcRect.Intersect(src.Bounds())
	dstRect := image.Rectangle{Min: dstPt, Max: dstPt.Add(srcRect.Size())}.Intersect(r.Bounds())
	// Shift the source back in line with whatever got clipped off the destination
	srcRect.Min = srcRect.Min.Add(dstRect.Min.Sub(dstPt))
	w := dstRect.Dx()
	if w <= 0 {
		return nil
	}

	for y := 0; y < dstRect.Dy(); y++ {
		so := src.offset(srcRect.Min.X, srcRect.Min.Y+y)
		do := r.offset(dstRect.Min.X, dstRect.Min.Y+y)
		copy(r.Pix[do:do+w*r.Bands], src.Pix[so:so+w*r.Bands])
	}
	return nil
}

// BlockAverage - shrinks each dimension by factor, each output sample is the mean of its
// factor x factor block. Blocks on a ragged right/bottom edge average what's there.
func (r *Raster) BlockAverage(factor int) *Raster {
	if factor <= 1 {
		return r.Clone()
	}

	w := (r.Width + factor - 1) / factor
	h := (r.Height + factor - 1) / factor
	out := New(w, h, r.Bands)
	sums := make([]float64, r.Bands)

	for y := 0; y < h; y++ {
		y1 := min(r.Height, (y+1)*factor)
		for x := 0; x < w; x++ {
			x1 := min(r.Width, (x+1)*factor)
			for b := range sums {
				sums[b] = 0
			}
			n := 0
			for sy := y * factor; sy < y1; sy++ {
				for sx := x * factor; sx < x1; sx++ {
					for b, v := range r.Pixel(sx, sy) {
						sums[b] += float64(v)
					}
					n++
				}
			}
			for b, sum := range sums {
				out.Set(x, y, b, float32(sum/float64(n)))
			}
		}
	}
	return out
}
