package ws

import (
	"net/http"

	"github.com/euniverse/core/core/errorwithstatus"
	"github.com/euniverse/core/core/viewport"
)

// Same mapping as the HTTP API so clients see one set of failure kinds
func errorToStatus(err error) string {
	if err == nil {
		return statusOK
	}

	withStatus, ok := errorwithstatus.FromEngineError(err).(errorwithstatus.Error)
	if !ok {
		return statusServerError
	}

	switch withStatus.Status() {
	case http.StatusBadRequest:
		return statusBadRequest
	case http.StatusServiceUnavailable:
		return statusNotReady
	default:
		return statusServerError
	}
}

func makeResponse(req WSRequest, err error, state *viewport.State) *WSMessage {
	resp := &WSMessage{
		MsgID:  req.MsgID,
		Type:   msgResponse,
		Status: errorToStatus(err),
	}
	if err != nil {
		resp.ErrorText = err.Error()
	}
	resp.Viewport = state
	return resp
}
