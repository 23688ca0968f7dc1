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

package contrast

import (
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
)

const lutCacheLimit = 16

// LUT16 - display bytes for every 16 bit integer sample of one band
type LUT16 [65536]uint8

// Pipeline - holds the contrast params currently in effect. A render takes one snapshot via Params()
// and uses it throughout, so a concurrent SetParams never gives a half old, half new frame.
type Pipeline struct {
	params atomic.Pointer[Params]
	log    logger.ILogger

	lutLock sync.Mutex
	luts    map[string]*LUT16
}

func NewPipeline(initial Params, log logger.ILogger) (*Pipeline, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}

	pl := &Pipeline{log: log, luts: map[string]*LUT16{}}
	pl.params.Store(copyParams(initial))
	return pl, nil
}

func copyParams(p Params) *Params {
	c := p
	c.BandScale = append([]float64(nil), p.BandScale...)
	return &c
}

func (pl *Pipeline) Params() Params {
	return *copyParams(*pl.params.Load())
}

// SetParams - rejected params leave the previous ones in effect
func (pl *Pipeline) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		pl.log.Errorf("Rejected contrast params: %v", err)
		return err
	}
	pl.params.Store(copyParams(p))
	pl.log.Debugf("Contrast set to %v..%v, %v stretch", p.Lower, p.Upper, p.Stretch)
	return nil
}

// LUT - lookup table for integer samples of a band. Tables are cached per params, the cache is
// cleared when it gets too big since params rarely flip back and forth much.
func (pl *Pipeline) LUT(p Params, band int) *LUT16 {
	key := fmt.Sprintf("%v|%v|%v|%v", p.Lower, p.Upper, p.Stretch, p.scale(band))

	pl.lutLock.Lock()
	defer pl.lutLock.Unlock()

	if lut, ok := pl.luts[key]; ok {
		return lut
	}
	if len(pl.luts) >= lutCacheLimit {
		pl.luts = map[string]*LUT16{}
	}

	lut := &LUT16{}
	for v := range lut {
		lut[v] = ApplyByte(float64(v), band, p)
	}
	pl.luts[key] = lut
	return lut
}

// RenderRaster - display image of r using the current params. 1 band is grey, 2 bands give R, G
// and their mean as B, otherwise the first 3 bands are R, G, B.
func (pl *Pipeline) RenderRaster(r *raster.Raster) *image.RGBA {
	return pl.Render(r, pl.Params())
}

func (pl *Pipeline) Render(r *raster.Raster, p Params) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))

	bands := min(r.Bands, 3)
	luts := make([]*LUT16, bands)
	for b := range luts {
		luts[b] = pl.LUT(p, b)
	}

	var rgb [3]uint8
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := r.Pixel(x, y)
			for b := 0; b < bands; b++ {
				rgb[b] = displayByte(px[b], b, p, luts[b])
			}

			switch bands {
			case 1:
				rgb[1], rgb[2] = rgb[0], rgb[0]
			case 2:
				rgb[2] = uint8((int(rgb[0]) + int(rgb[1]) + 1) / 2)
			}

			o := out.PixOffset(x, y)
			out.Pix[o] = rgb[0]
			out.Pix[o+1] = rgb[1]
			out.Pix[o+2] = rgb[2]
			out.Pix[o+3] = 0xff
		}
	}
	return out
}

// displayByte - integer samples in 16 bit range go through the table, it was built with the same
// ApplyByte so the result is identical
func displayByte(v float32, band int, p Params, lut *LUT16) uint8 {
	if v >= 0 && v <= math.MaxUint16 && v == float32(int32(v)) {
		return lut[int(v)]
	}
	return ApplyByte(float64(v), band, p)
}
