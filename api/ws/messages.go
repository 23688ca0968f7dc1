package ws

import (
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/viewport"
)

// Request types a client can send. A drag arrives as beginPan, any number of panBy and then
// endGesture, a pinch the same with beginZoom/zoomBy. The rest are whole actions.
const (
	reqBeginPan   = "beginPan"
	reqPanBy      = "panBy"
	reqBeginZoom  = "beginZoom"
	reqZoomBy     = "zoomBy"
	reqEndGesture = "endGesture"
	reqPan        = "pan"
	reqZoom       = "zoom"
	reqZoomIn     = "zoomIn"
	reqZoomOut    = "zoomOut"
	reqCenter     = "center"
	reqFit        = "fit"
	reqReset      = "reset"
	reqResize     = "resize"
	reqGetState   = "getState"
)

// Message types we send
const (
	msgResponse = "response"
	msgViewport = "viewport"
	msgContrast = "contrast"
	msgTarget   = "target"
)

// Response status
const (
	statusOK          = "ok"
	statusBadRequest  = "bad_request"
	statusNotReady    = "not_ready"
	statusServerError = "server_error"
)

type WSRequest struct {
	MsgID uint32 `json:"msgId"`
	Type  string `json:"type"`

	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Factor float64 `json:"factor,omitempty"`

	// Zoom anchor in screen pixels, the middle of the screen if not given
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	RA  float64 `json:"ra,omitempty"`
	Dec float64 `json:"dec,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// WSMessage - responses carry the msgId of the request they answer, updates pushed to everyone
// have none
type WSMessage struct {
	MsgID     uint32           `json:"msgId,omitempty"`
	Type      string           `json:"type"`
	Status    string           `json:"status,omitempty"`
	ErrorText string           `json:"errorText,omitempty"`
	Viewport  *viewport.State  `json:"viewport,omitempty"`
	Contrast  *contrast.Params `json:"contrast,omitempty"`
	Target    *targets.Record  `json:"target,omitempty"`
}
