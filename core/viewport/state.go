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

package viewport

import (
	"fmt"

	"github.com/euniverse/core/core/wcs"
)

type GestureState int

const (
	Idle GestureState = iota
	Panning
	Zooming
)

func (g GestureState) String() string {
	switch g {
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	}
	return "idle"
}

func (g GestureState) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *GestureState) UnmarshalText(text []byte) error {
	for _, known := range []GestureState{Idle, Panning, Zooming} {
		if known.String() == string(text) {
			*g = known
			return nil
		}
	}
	return fmt.Errorf("unknown gesture state: %q", text)
}

// Rect - in full resolution image pixels, edges included
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

func (r Rect) Contains(p wcs.PixelCoord) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// ScreenPoint - position on the display surface, origin top left
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State - a snapshot of the viewport. Zoom is screen pixels per image pixel.
type State struct {
	Center       wcs.SkyCoord   `json:"center"`
	CenterPixel  wcs.PixelCoord `json:"centerPixel"`
	Zoom         float64        `json:"zoom"`
	Visible      Rect           `json:"visible"`
	ScreenWidth  int            `json:"screenWidth"`
	ScreenHeight int            `json:"screenHeight"`
	Gesture      GestureState   `json:"gesture"`
	Version      uint64         `json:"version"`
}

func (s State) ScreenToPixel(p ScreenPoint) wcs.PixelCoord {
	return wcs.PixelCoord{
		X: s.CenterPixel.X + (p.X-float64(s.ScreenWidth)/2)/s.Zoom,
		Y: s.CenterPixel.Y + (p.Y-float64(s.ScreenHeight)/2)/s.Zoom,
	}
}

func (s State) PixelToScreen(p wcs.PixelCoord) ScreenPoint {
	return ScreenPoint{
		X: (p.X-s.CenterPixel.X)*s.Zoom + float64(s.ScreenWidth)/2,
		Y: (p.Y-s.CenterPixel.Y)*s.Zoom + float64(s.ScreenHeight)/2,
	}
}

// Change - delivered to subscribers, always the latest state at delivery time
type Change struct {
	State State
}
