package ws

import (
	"fmt"

	"github.com/euniverse/core/core/errorwithstatus"
	"github.com/euniverse/core/core/viewport"
	"github.com/euniverse/core/core/wcs"
)

func (ws *WSHandler) dispatchWSMessage(req WSRequest) *WSMessage {
	vp := ws.svcs.Session.Viewport
	var err error

	switch req.Type {
	case reqBeginPan:
		if !vp.BeginPan() {
			err = gestureBusy(vp, req.Type)
		}
	case reqBeginZoom:
		if !vp.BeginZoom() {
			err = gestureBusy(vp, req.Type)
		}
	case reqPanBy:
		err = vp.PanBy(req.DX, req.DY)
	case reqZoomBy:
		err = vp.ZoomBy(req.Factor, anchorFor(req, vp.State()))
	case reqEndGesture:
		vp.EndGesture()
	case reqPan:
		err = vp.Pan(req.DX, req.DY)
	case reqZoom:
		err = vp.ZoomAt(req.Factor, anchorFor(req, vp.State()))
	case reqZoomIn:
		err = vp.ZoomIn()
	case reqZoomOut:
		err = vp.ZoomOut()
	case reqCenter:
		err = vp.CenterOn(wcs.SkyCoord{RA: req.RA, Dec: req.Dec})
	case reqFit:
		vp.FitToView()
	case reqReset:
		vp.ResetZoom()
	case reqResize:
		err = vp.Resize(req.Width, req.Height)
	case reqGetState:
	default:
		err = errorwithstatus.MakeBadRequestError(fmt.Errorf("unknown request type: %q", req.Type))
	}

	state := vp.State()
	return makeResponse(req, err, &state)
}

func anchorFor(req WSRequest, state viewport.State) viewport.ScreenPoint {
	anchor := viewport.ScreenPoint{X: float64(state.ScreenWidth) / 2, Y: float64(state.ScreenHeight) / 2}
	if req.X != nil {
		anchor.X = *req.X
	}
	if req.Y != nil {
		anchor.Y = *req.Y
	}
	return anchor
}

func gestureBusy(vp *viewport.Controller, reqType string) error {
	return errorwithstatus.MakeBadRequestError(fmt.Errorf("%v ignored, viewport is %v", reqType, vp.State().Gesture))
}
