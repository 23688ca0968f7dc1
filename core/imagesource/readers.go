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

package imagesource

import (
	"fmt"
	"image"
	"image/color"

	"github.com/euniverse/core/core/raster"
)

// MemoryReader - serves regions out of a raster that's already in memory
type MemoryReader struct {
	data *raster.Raster
}

func MakeMemoryReader(data *raster.Raster) *MemoryReader {
	return &MemoryReader{data: data}
}

func (m *MemoryReader) Bands() int {
	return m.data.Bands
}

func (m *MemoryReader) ReadRegion(r image.Rectangle) (*raster.Raster, error) {
	if !r.In(m.data.Bounds()) {
		return nil, fmt.Errorf("region %v outside %v", r, m.data.Bounds())
	}
	out := raster.New(r.Dx(), r.Dy(), m.data.Bands)
	err := out.CopyFrom(m.data, r, image.Point{})
	return out, err
}

// ImageReader - serves regions of a decoded image.Image. Grey images give one band, anything
// else gives R, G, B. Samples stay in the native range of the format: 0-255 for 8 bit,
// 0-65535 for 16 bit.
type ImageReader struct {
	img      image.Image
	bands    int
	eightBit bool
}

func MakeImageReader(img image.Image) *ImageReader {
	r := &ImageReader{img: img, bands: 3}

	switch img.(type) {
	case *image.Gray, *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Paletted, *image.CMYK:
		r.eightBit = true
	}
	switch img.ColorModel() {
	case color.GrayModel:
		r.bands = 1
		r.eightBit = true
	case color.Gray16Model:
		r.bands = 1
	}
	return r
}

func (m *ImageReader) Bands() int {
	return m.bands
}

func (m *ImageReader) ReadRegion(r image.Rectangle) (*raster.Raster, error) {
	b := m.img.Bounds()
	if !r.Add(b.Min).In(b) {
		return nil, fmt.Errorf("region %v outside %v", r, b)
	}

	out := raster.New(r.Dx(), r.Dy(), m.bands)

	// Fast path for the single band 16 bit mosaics
	if g, ok := m.img.(*image.Gray16); ok {
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				out.Set(x, y, 0, float32(g.Gray16At(b.Min.X+r.Min.X+x, b.Min.Y+r.Min.Y+y).Y))
			}
		}
		return out, nil
	}

	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			m.sample(m.img.At(b.Min.X+r.Min.X+x, b.Min.Y+r.Min.Y+y), out.Pixel(x, y))
		}
	}
	return out, nil
}

// Colours are converted non-premultiplied, so transparent edges don't darken the data
func (m *ImageReader) sample(c color.Color, px []float32) {
	switch {
	case m.bands == 1 && m.eightBit:
		px[0] = float32(color.GrayModel.Convert(c).(color.Gray).Y)
	case m.bands == 1:
		px[0] = float32(color.Gray16Model.Convert(c).(color.Gray16).Y)
	case m.eightBit:
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		px[0], px[1], px[2] = float32(nc.R), float32(nc.G), float32(nc.B)
	default:
		nc := color.NRGBA64Model.Convert(c).(color.NRGBA64)
		px[0], px[1], px[2] = float32(nc.R), float32(nc.G), float32(nc.B)
	}
}
