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

package endpoints

import (
	"github.com/euniverse/core/api/handlers"
	apiRouter "github.com/euniverse/core/api/router"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Viewport navigation. Every action returns the state it left the viewport in, connected web sockets
// hear about it on the next tick.

const viewportPrefix = "viewport"

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Anchor is in screen pixels, the middle of the screen if not given
type zoomRequest struct {
	Factor float64  `json:"factor"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

type centerRequest struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

type screenRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SkyPosition - where a screen point lands, with the sexagesimal text shown next to the cursor
type SkyPosition struct {
	Pixel   wcs.PixelCoord `json:"pixel"`
	Sky     wcs.SkyCoord   `json:"sky"`
	RAText  string         `json:"raText"`
	DecText string         `json:"decText"`
	OnImage bool           `json:"onImage"`
}

func registerViewportHandler(router *apiRouter.ApiObjectRouter) {
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix), "GET", viewportGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "pan"), "POST", viewportPan)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "zoom"), "POST", viewportZoom)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "zoom-in"), "POST", viewportZoomIn)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "zoom-out"), "POST", viewportZoomOut)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "center"), "POST", viewportCenter)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "fit"), "POST", viewportFit)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "reset"), "POST", viewportReset)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "screen"), "PUT", viewportScreen)
	router.AddJSONHandler(handlers.MakeEndpointPath(viewportPrefix, "sky"), "GET", viewportSky)
}

func viewportGet(params handlers.ApiHandlerParams) (interface{}, error) {
	return params.Svcs.Session.Viewport.State(), nil
}

func viewportPan(params handlers.ApiHandlerParams) (interface{}, error) {
	var req panRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	vp := params.Svcs.Session.Viewport
	if err := vp.Pan(req.DX, req.DY); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportZoom(params handlers.ApiHandlerParams) (interface{}, error) {
	var req zoomRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	vp := params.Svcs.Session.Viewport
	state := vp.State()
	anchor := viewport.ScreenPoint{X: float64(state.ScreenWidth) / 2, Y: float64(state.ScreenHeight) / 2}
	if req.X != nil {
		anchor.X = *req.X
	}
	if req.Y != nil {
		anchor.Y = *req.Y
	}

	if err := vp.ZoomAt(req.Factor, anchor); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportZoomIn(params handlers.ApiHandlerParams) (interface{}, error) {
	vp := params.Svcs.Session.Viewport
	if err := vp.ZoomIn(); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportZoomOut(params handlers.ApiHandlerParams) (interface{}, error) {
	vp := params.Svcs.Session.Viewport
	if err := vp.ZoomOut(); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportCenter(params handlers.ApiHandlerParams) (interface{}, error) {
	var req centerRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	vp := params.Svcs.Session.Viewport
	if err := vp.CenterOn(wcs.SkyCoord{RA: req.RA, Dec: req.Dec}); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportFit(params handlers.ApiHandlerParams) (interface{}, error) {
	vp := params.Svcs.Session.Viewport
	vp.FitToView()
	return vp.State(), nil
}

func viewportReset(params handlers.ApiHandlerParams) (interface{}, error) {
	vp := params.Svcs.Session.Viewport
	vp.ResetZoom()
	return vp.State(), nil
}

func viewportScreen(params handlers.ApiHandlerParams) (interface{}, error) {
	var req screenRequest
	if err := readRequestBody(params.Request, &req); err != nil {
		return nil, err
	}

	vp := params.Svcs.Session.Viewport
	if err := vp.Resize(req.Width, req.Height); err != nil {
		return nil, err
	}
	return vp.State(), nil
}

func viewportSky(params handlers.ApiHandlerParams) (interface{}, error) {
	x, err := floatParam(params.PathParams, "x")
	if err != nil {
		return nil, err
	}
	y, err := floatParam(params.PathParams, "y")
	if err != nil {
		return nil, err
	}

	sess := params.Svcs.Session
	pixel := sess.Viewport.State().ScreenToPixel(viewport.ScreenPoint{X: x, Y: y})
	sky := sess.Source.WCS.ToSky(pixel)

	return SkyPosition{
		Pixel:   pixel,
		Sky:     sky,
		RAText:  wcs.FormatRA(sky.RA),
		DecText: wcs.FormatDec(sky.Dec),
		OnImage: sess.Source.Contains(pixel),
	}, nil
}
