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

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/euniverse/core/core/overlay"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/wcs"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

const (
	// Target circles, in image pixels like the markers
	targetRadius    = 10.0
	targetLineWidth = 2.0
	markerLineWidth = 1.0

	// Marker colour runs from brightMarker at brightMag to faintMarker at faintMag
	brightMag = 18.0
	faintMag  = 28.0
)

var (
	brightMarker = colorful.Color{R: 1, G: 1, B: 0}
	faintMarker  = colorful.Color{R: 1, G: 0, B: 0}
)

// MarkerColour - yellow for bright objects through to red for faint ones, blended in Lab space so the
// steps look even. Objects with no magnitude are drawn yellow.
func MarkerColour(mag *float64) color.RGBA {
	if mag == nil || math.IsNaN(*mag) {
		return rgba(brightMarker)
	}
	t := (*mag - brightMag) / (faintMag - brightMag)
	t = math.Max(0, math.Min(1, t))
	return rgba(brightMarker.BlendLab(faintMarker, t).Clamped())
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Snapshot - a copy of the frame with catalog markers and targets drawn on it. The frame is not
// modified.
func Snapshot(frame *Frame, solution *wcs.Solution, records []targets.Record) *image.RGBA {
	dc := gg.NewContextForImage(frame.Image)
	state := frame.State

	dc.SetLineWidth(markerLineWidth)
	for _, m := range frame.Markers {
		drawMarker(dc, frame, m)
	}

	dc.SetLineWidth(targetLineWidth)
	for _, rec := range records {
		p, err := solution.ToPixel(rec.Sky)
		if err != nil {
			continue
		}
		s := state.PixelToScreen(p)
		dc.SetColor(rec.Category().Colour())
		dc.DrawCircle(s.X, s.Y, targetRadius*state.Zoom)
		dc.Stroke()
	}

	return imageToRGBA(dc.Image())
}

func drawMarker(dc *gg.Context, frame *Frame, m overlay.Marker) {
	s := frame.State.PixelToScreen(m.Pixel)
	zoom := frame.State.Zoom

	dc.Push()
	dc.RotateAbout(gg.Radians(m.Ellipse.RotationDeg), s.X, s.Y)
	dc.DrawEllipse(s.X, s.Y, m.Ellipse.SemiMajor*zoom, m.Ellipse.SemiMinor*zoom)
	dc.SetColor(MarkerColour(m.Entry.Meta.Mag))
	dc.Stroke()
	dc.Pop()
}

func imageToRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok {
		return r
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
