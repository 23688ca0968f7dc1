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

// Viewport controller: which part of the image is on screen and at what zoom. Gestures (pan, zoom)
// change it, and it is always clamped so the visible area stays on the image. Changes are pushed to
// subscribers, coalesced to at most one per Tick.
package viewport

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/euniverse/core/core/engineerror"
	"github.com/euniverse/core/core/imagesource"
	"github.com/euniverse/core/core/logger"
	"github.com/euniverse/core/core/wcs"
)

const (
	DefaultMinZoom  = 0.01
	DefaultMaxZoom  = 32
	DefaultZoomStep = 1.2
)

type Config struct {
	ScreenW  int
	ScreenH  int
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
}

type subscriber struct {
	id int
	fn func(Change)
}

// Controller - all methods are safe to call from several goroutines (eg HTTP handlers). Subscriber
// callbacks run outside the state lock so they can read State(), but must not call Tick.
type Controller struct {
	mu      sync.Mutex
	src     *imagesource.Source
	cfg     Config
	center  wcs.PixelCoord
	zoom    float64
	gesture GestureState
	version uint64
	dirty   bool

	subs      []subscriber
	nextSubID int
	tickLock  sync.Mutex

	log logger.ILogger
}

func New(src *imagesource.Source, cfg Config, log logger.ILogger) (*Controller, error) {
	if cfg.MinZoom == 0 {
		cfg.MinZoom = DefaultMinZoom
	}
	if cfg.MaxZoom == 0 {
		cfg.MaxZoom = DefaultMaxZoom
	}
	if cfg.ZoomStep == 0 {
		cfg.ZoomStep = DefaultZoomStep
	}

	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		return nil, engineerror.Configuration("invalid screen size %vx%v", cfg.ScreenW, cfg.ScreenH)
	}
	if !(cfg.MinZoom > 0) || cfg.MaxZoom < cfg.MinZoom || math.IsInf(cfg.MaxZoom, 0) {
		return nil, engineerror.Configuration("invalid zoom range %v..%v", cfg.MinZoom, cfg.MaxZoom)
	}
	if !(cfg.ZoomStep > 1) || math.IsInf(cfg.ZoomStep, 0) {
		return nil, engineerror.Configuration("zoom step must be above 1, got %v", cfg.ZoomStep)
	}

	c := &Controller{src: src, cfg: cfg, log: log}
	c.fitLocked()
	return c, nil
}

// State - consistent snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	halfW := float64(c.cfg.ScreenW) / 2 / c.zoom
	halfH := float64(c.cfg.ScreenH) / 2 / c.zoom

	return State{
		Center:      c.src.WCS.ToSky(c.center),
		CenterPixel: c.center,
		Zoom:        c.zoom,
		Visible: Rect{
			MinX: c.center.X - halfW,
			MinY: c.center.Y - halfH,
			MaxX: c.center.X + halfW,
			MaxY: c.center.Y + halfH,
		},
		ScreenWidth:  c.cfg.ScreenW,
		ScreenHeight: c.cfg.ScreenH,
		Gesture:      c.gesture,
		Version:      c.version,
	}
}

func (c *Controller) changedLocked() {
	c.version++
	c.dirty = true
}

func (c *Controller) clampZoom(z float64) float64 {
	return math.Min(c.cfg.MaxZoom, math.Max(c.cfg.MinZoom, z))
}

// clampLocked - per axis: if the whole image fits, centre it, otherwise keep the visible area on
// the image
func (c *Controller) clampLocked() {
	c.center.X = clampAxis(c.center.X, float64(c.cfg.ScreenW)/c.zoom, float64(c.src.Width))
	c.center.Y = clampAxis(c.center.Y, float64(c.cfg.ScreenH)/c.zoom, float64(c.src.Height))
}

func clampAxis(center, visible, extent float64) float64 {
	if visible >= extent {
		return extent / 2
	}
	half := visible / 2
	return math.Min(extent-half, math.Max(half, center))
}

func (c *Controller) fitLocked() {
	c.zoom = c.clampZoom(math.Min(float64(c.cfg.ScreenW)/float64(c.src.Width), float64(c.cfg.ScreenH)/float64(c.src.Height)))
	c.center = wcs.PixelCoord{X: float64(c.src.Width) / 2, Y: float64(c.src.Height) / 2}
	c.clampLocked()
	c.changedLocked()
}

func (c *Controller) screenCenter() ScreenPoint {
	return ScreenPoint{X: float64(c.cfg.ScreenW) / 2, Y: float64(c.cfg.ScreenH) / 2}
}

// BeginPan - only starts from Idle, returns whether it did
func (c *Controller) BeginPan() bool {
	return c.begin(Panning)
}

func (c *Controller) BeginZoom() bool {
	return c.begin(Zooming)
}

func (c *Controller) begin(g GestureState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture != Idle {
		return false
	}
	c.gesture = g
	c.changedLocked()
	return true
}

func (c *Controller) EndGesture() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture != Idle {
		c.gesture = Idle
		c.changedLocked()
	}
}

// PanBy - dragging the image by (dx, dy) screen pixels moves the centre the opposite way. Only
// valid between BeginPan and EndGesture.
func (c *Controller) PanBy(dx, dy float64) error {
	if err := checkPan(dx, dy); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture != Panning {
		return engineerror.Configuration("panBy while viewport is %v", c.gesture)
	}
	c.panLocked(dx, dy)
	return nil
}

// Pan - a whole pan gesture in one call. Allowed unless a zoom gesture is in progress.
func (c *Controller) Pan(dx, dy float64) error {
	if err := checkPan(dx, dy); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture == Zooming {
		return engineerror.Configuration("pan while viewport is %v", c.gesture)
	}
	c.panLocked(dx, dy)
	return nil
}

func (c *Controller) panLocked(dx, dy float64) {
	c.center.X -= dx / c.zoom
	c.center.Y -= dy / c.zoom
	c.clampLocked()
	c.changedLocked()
}

// ZoomBy - multiplies the zoom by factor keeping the image pixel under anchor where it is on
// screen, unless clamping has to move it. Zoom beyond the limits is clamped, not rejected. Only
// valid between BeginZoom and EndGesture.
func (c *Controller) ZoomBy(factor float64, anchor ScreenPoint) error {
	if err := checkZoom(factor, anchor); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture != Zooming {
		return engineerror.Configuration("zoomBy while viewport is %v", c.gesture)
	}
	c.zoomLocked(factor, anchor)
	return nil
}

// ZoomAt - a whole zoom gesture in one call. Allowed unless a pan gesture is in progress.
func (c *Controller) ZoomAt(factor float64, anchor ScreenPoint) error {
	if err := checkZoom(factor, anchor); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture == Panning {
		return engineerror.Configuration("zoom while viewport is %v", c.gesture)
	}
	c.zoomLocked(factor, anchor)
	return nil
}

func (c *Controller) zoomLocked(factor float64, anchor ScreenPoint) {
	sc := c.screenCenter()
	offX := anchor.X - sc.X
	offY := anchor.Y - sc.Y
	anchorPixel := wcs.PixelCoord{X: c.center.X + offX/c.zoom, Y: c.center.Y + offY/c.zoom}

	c.zoom = c.clampZoom(c.zoom * factor)
	c.center = wcs.PixelCoord{X: anchorPixel.X - offX/c.zoom, Y: anchorPixel.Y - offY/c.zoom}
	c.clampLocked()
	c.changedLocked()
}

// ZoomIn - one zoom step about the middle of the screen
func (c *Controller) ZoomIn() error {
	step, sc := c.stepAndCenter()
	return c.ZoomAt(step, sc)
}

func (c *Controller) ZoomOut() error {
	step, sc := c.stepAndCenter()
	return c.ZoomAt(1/step, sc)
}

func (c *Controller) stepAndCenter() (float64, ScreenPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.ZoomStep, c.screenCenter()
}

// ResetZoom - 1 screen pixel per image pixel, same centre (as far as clamping allows)
func (c *Controller) ResetZoom() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.zoom = c.clampZoom(1)
	c.clampLocked()
	c.changedLocked()
}

func (c *Controller) FitToView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fitLocked()
}

// CenterOn - positions the view on a sky coordinate, which must be on the image. Nothing changes if
// it isn't.
func (c *Controller) CenterOn(sky wcs.SkyCoord) error {
	p, err := c.src.WCS.ToPixel(sky)
	if err != nil {
		return err
	}
	if !c.src.Contains(p) {
		return engineerror.OutOfFootprint("%v, %v is outside image %v", sky.RA, sky.Dec, c.src.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.center = p
	c.clampLocked()
	c.changedLocked()
	return nil
}

func (c *Controller) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return engineerror.Configuration("invalid screen size %vx%v", w, h)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.ScreenW = w
	c.cfg.ScreenH = h
	c.clampLocked()
	c.changedLocked()
	return nil
}

// Subscribe - fn gets the latest state on the next Tick after any change
func (c *Controller) Subscribe(fn func(Change)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Tick - if anything changed since the last tick, delivers one Change to each subscriber in the
// order they subscribed. Returns whether anything was delivered.
func (c *Controller) Tick() bool {
	c.tickLock.Lock()
	defer c.tickLock.Unlock()

	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return false
	}
	c.dirty = false
	change := Change{State: c.stateLocked()}
	subs := append([]subscriber{}, c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(change)
	}
	return true
}

// Run - ticks until ctx is done, for hosts that don't have their own event loop
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.Debugf("Viewport notifications every %v", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func checkPan(dx, dy float64) error {
	if !finite(dx, dy) {
		return engineerror.Configuration("invalid pan %v,%v", dx, dy)
	}
	return nil
}

func checkZoom(factor float64, anchor ScreenPoint) error {
	if !finite(factor, anchor.X, anchor.Y) || factor <= 0 {
		return engineerror.Configuration("invalid zoom factor %v at %v,%v", factor, anchor.X, anchor.Y)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
