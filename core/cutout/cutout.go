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

// Cutouts: a copy of the samples around a sky position, read through the tile cache at the coarsest
// resolution level that still gives the requested minimum output size.
package cutout

import (
	"context"
	"image"
	"math"

	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imageedit"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/raster"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/wcs"
	"github.com/pkg/errors"
)

const DefaultMinOutputPixels = 64

// Cutout - owns its raster, nothing is shared with the cache. Origin is the area covered in full
// resolution pixels.
type Cutout struct {
	Raster     *raster.Raster
	Level      int
	Origin     image.Rectangle
	Center     wcs.PixelCoord
	CenterSky  wcs.SkyCoord
	SizeArcsec float64
}

// PNG - renders with the given contrast params
func (c *Cutout) PNG(pipeline *contrast.Pipeline, params contrast.Params) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return imageedit.GetImageBytes(pipeline.Render(c.Raster, params), imageedit.FormatPNG)
}

type Extractor struct {
	src             *imagesource.Source
	cache           *tilecache.Cache
	MinOutputPixels int
	log             logger.ILogger
}

func NewExtractor(src *imagesource.Source, cache *tilecache.Cache, minOutputPixels int, log logger.ILogger) *Extractor {
	if minOutputPixels <= 0 {
		minOutputPixels = DefaultMinOutputPixels
	}
	return &Extractor{src: src, cache: cache, MinOutputPixels: minOutputPixels, log: log}
}

// PickLevel - the coarsest level whose pixels are no bigger than size/MinOutputPixels, so the output
// has at least MinOutputPixels across without upsampling. Level 0 if even that is too coarse.
// Taking the finest qualifying level instead would always give level 0, full resolution qualifies
// whenever any level does.
func (e *Extractor) PickLevel(sizeArcsec float64) int {
	target := sizeArcsec / float64(e.MinOutputPixels)
	level := 0
	for l := 1; l < e.src.Levels; l++ {
		if e.src.LevelScaleArcsec(l) <= target {
			level = l
		}
	}
	return level
}

// Extract - sizeArcsec is the side of the square cutout. The area is clipped to the image, so cutouts
// near an edge are smaller.
func (e *Extractor) Extract(ctx context.Context, center wcs.SkyCoord, sizeArcsec float64) (*Cutout, error) {
	if !(sizeArcsec > 0) || math.IsInf(sizeArcsec, 0) {
		return nil, engineerror.Configuration("invalid cutout size %v arcsec", sizeArcsec)
	}

	p, err := e.src.WCS.ToPixel(center)
	if err != nil {
		return nil, err
	}
	if !e.src.Contains(p) {
		return nil, engineerror.OutOfFootprint("cutout centre %v, %v is outside image %v", center.RA, center.Dec, e.src.ID)
	}

	level := e.PickLevel(sizeArcsec)
	factor := float64(imagesource.LevelFactor(level))
	half := sizeArcsec / e.src.WCS.PixelScaleArcsec() / 2

	// Round outwards in level pixels so the requested area is always covered
	rect := image.Rect(
		int(math.Floor((p.X-half)/factor)),
		int(math.Floor((p.Y-half)/factor)),
		int(math.Ceil((p.X+half)/factor)),
		int(math.Ceil((p.Y+half)/factor)),
	).Intersect(e.src.LevelBounds(level))

	if rect.Empty() {
		return nil, engineerror.OutOfFootprint("cutout at %v, %v has no area inside image %v", center.RA, center.Dec, e.src.ID)
	}

	out, err := e.cache.ReadRegion(ctx, e.src, level, rect)
	if err != nil {
		e.log.Errorf("Cutout at %v, %v failed: %v", center.RA, center.Dec, err)
		return nil, errors.Wrapf(err, "cutout at %v, %v", center.RA, center.Dec)
	}

	f := imagesource.LevelFactor(level)
	origin := image.Rect(rect.Min.X*f, rect.Min.Y*f, rect.Max.X*f, rect.Max.Y*f).Intersect(e.src.Bounds())

	return &Cutout{
		Raster:     out,
		Level:      level,
		Origin:     origin,
		Center:     p,
		CenterSky:  center,
		SizeArcsec: sizeArcsec,
	}, nil
}
