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

package raster

import (
	"fmt"
	"image"
)

func makeRamp(w, h, bands int) *Raster {
	r := New(w, h, bands)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for b := 0; b < bands; b++ {
				r.Set(x, y, b, float32(y*100+x*10+b))
			}
		}
	}
	return r
}

func Example_copyFrom() {
	src := makeRamp(4, 3, 1)
	dst := New(3, 3, 1)

	// Partly off the destination to the right, and off the source at the bottom
	err := dst.CopyFrom(src, image.Rect(1, 1, 4, 4), image.Pt(1, 0))
	fmt.Println(err)
	for y := 0; y < dst.Height; y++ {
		fmt.Println(dst.Pix[y*3 : y*3+3])
	}

	fmt.Println(dst.CopyFrom(New(2, 2, 3), image.Rect(0, 0, 2, 2), image.Pt(0, 0)))

	// Output:
	// <nil>
	// [0 110 120]
	// [0 210 220]
	// [0 0 0]
	// band count mismatch: 3 vs 1
}

func Example_blockAverage() {
	src := makeRamp(3, 3, 2)
	half := src.BlockAverage(2)
	fmt.Printf("%vx%vx%v\n", half.Width, half.Height, half.Bands)
	fmt.Println(half.Pixel(0, 0), half.Pixel(1, 0), half.Pixel(0, 1), half.Pixel(1, 1))
	fmt.Println(half.SizeBytes())

	// Output:
	// 2x2x2
	// [55 56] [70 71] [205 206] [220 221]
	// 32
}

func Example_blockAverageLarge() {
	src := makeRamp(5, 4, 1)
	q := src.BlockAverage(4)
	fmt.Printf("%vx%v %v\n", q.Width, q.Height, q.Pix)

	// Output:
	// 2x1 [165 190]
}

func Example_equal() {
	a := makeRamp(5, 5, 3)
	b := a.Clone()
	fmt.Println(a.Equal(b))
	b.Set(4, 4, 2, 0)
	fmt.Println(a.Equal(b))
	fmt.Println(a.Equal(New(5, 5, 1)))

	// Output:
	// true
	// false
	// false
}
