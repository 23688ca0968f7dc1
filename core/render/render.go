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

// Frame production: the visible part of the image at screen size with the current contrast, plus
// snapshots with the overlays drawn in.
package render

import (
	"context"
	"errors"
	"image"
	"math"

	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/overlay"
	"github.com/euniverse/core/core/tilecache"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
	"golang.org/x/image/draw"
)

// Frame - what the display shows for one viewport state
type Frame struct {
	Image        *image.RGBA
	Markers      []overlay.Marker
	MarkersStale bool
	State        viewport.State
	Contrast     contrast.Params

	// Tiles that failed to decode and were drawn blank
	BlankTiles bool
}

type Renderer struct {
	src      *imagesource.Source
	cache    *tilecache.Cache
	pipeline *contrast.Pipeline
	log      logger.ILogger
}

func NewRenderer(src *imagesource.Source, cache *tilecache.Cache, pipeline *contrast.Pipeline, log logger.ILogger) *Renderer {
	return &Renderer{src: src, cache: cache, pipeline: pipeline, log: log}
}

// LevelForZoom - the coarsest level that still has at least one level pixel per screen pixel
func (r *Renderer) LevelForZoom(zoom float64) int {
	level := 0
	for l := 1; l < r.src.Levels; l++ {
		if float64(imagesource.LevelFactor(l))*zoom <= 1 {
			level = l
		}
	}
	return level
}

// Render - fills in Image, State and Contrast. Screen area outside the image is black. One contrast
// snapshot is used for the whole frame.
func (r *Renderer) Render(ctx context.Context, state viewport.State) (*Frame, error) {
	params := r.pipeline.Params()
	frame := &Frame{
		Image:    image.NewRGBA(image.Rect(0, 0, state.ScreenWidth, state.ScreenHeight)),
		State:    state,
		Contrast: params,
	}
	draw.Draw(frame.Image, frame.Image.Bounds(), image.Black, image.Point{}, draw.Src)

	level := r.LevelForZoom(state.Zoom)
	f := float64(imagesource.LevelFactor(level))
	vis := state.Visible

	rect := image.Rect(
		int(math.Floor(vis.MinX/f)),
		int(math.Floor(vis.MinY/f)),
		int(math.Ceil(vis.MaxX/f)),
		int(math.Ceil(vis.MaxY/f)),
	).Intersect(r.src.LevelBounds(level))

	if rect.Empty() {
		return frame, nil
	}

	region, err := r.cache.ReadRegion(ctx, r.src, level, rect)
	if err != nil {
		if region == nil || !errors.Is(err, engineerror.ErrDecode) {
			return nil, err
		}
		r.log.Errorf("Rendering %v with blank tiles: %v", r.src.ID, err)
		frame.BlankTiles = true
	}

	rgba := r.pipeline.Render(region, params)

	topLeft := state.PixelToScreen(wcs.PixelCoord{X: float64(rect.Min.X) * f, Y: float64(rect.Min.Y) * f})
	bottomRight := state.PixelToScreen(wcs.PixelCoord{X: float64(rect.Max.X) * f, Y: float64(rect.Max.Y) * f})
	dst := image.Rect(
		int(math.Round(topLeft.X)),
		int(math.Round(topLeft.Y)),
		int(math.Round(bottomRight.X)),
		int(math.Round(bottomRight.Y)),
	)

	// Magnified pixels stay square, shrinking is smoothed
	var scaler draw.Scaler = draw.NearestNeighbor
	if state.Zoom*f < 1 {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(frame.Image, dst, rgba, rgba.Bounds(), draw.Src, nil)

	return frame, nil
}
