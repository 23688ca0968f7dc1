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
	"github.com/euniverse/core/core/raster"
	"github.com/euniverse/core/core/wcs"
)

// MakeSynthetic - an in-memory image with a known pattern, centred on refSky with north up.
// The API serves one of these when no mosaic is configured, and tests build on it.
func MakeSynthetic(id string, width, height, bands, tileSize int, refSky wcs.SkyCoord, scaleArcsec float64) (*Source, *raster.Raster, error) {
	data := raster.New(width, height, bands)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := data.Pixel(x, y)
			for b := range px {
				px[b] = float32((x*7 + y*13 + b*101) % 1000)
			}
		}
	}

	solution, err := wcs.FromScaleRotation(wcs.PixelCoord{X: float64(width) / 2, Y: float64(height) / 2}, refSky, scaleArcsec, 0)
	if err != nil {
		return nil, nil, err
	}

	src, err := New(id, MakeMemoryReader(data), width, height, solution, tileSize)
	return src, data, err
}
