package ws

import (
	"encoding/json"

	"github.com/euniverse/core/api/handlers"
	"github.com/euniverse/core/api/services"
	"github.com/euniverse/core/core/contrast"
	"github.com/euniverse/core/core/targets"
	"github.com/euniverse/core/core/viewport"
	"github.com/olahol/melody"
)

// WSHandler - live viewport control and change notifications. Every connected client hears about
// every viewport, contrast and target change, no matter who made it.
type WSHandler struct {
	melody *melody.Melody
	svcs   *services.APIServices
}

func MakeWSHandler(m *melody.Melody, svcs *services.APIServices) *WSHandler {
	ws := WSHandler{
		melody: m,
		svcs:   svcs,
	}
	return &ws
}

func (ws *WSHandler) HandleSocketCreation(params handlers.ApiHandlerGenericPublicParams) error {
	return ws.melody.HandleRequest(params.Writer, params.Request)
}

func (ws *WSHandler) HandleConnect(s *melody.Session) {
	sessId := ws.svcs.IDGen.GenObjectID()
	s.Set("id", sessId)

	ws.svcs.Log.Infof("WS connect session: %v, from: %v", sessId, s.Request.RemoteAddr)

	// New clients start from the current state, after that they get changes as they happen
	state := ws.svcs.Session.Viewport.State()
	sendForSession(s, &WSMessage{Type: msgViewport, Viewport: &state})
}

func (ws *WSHandler) HandleDisconnect(s *melody.Session) {
	id, ok := getSessionID(s)
	if !ok {
		ws.svcs.Log.Errorf("WS disconnect with missing session id")
		return
	}

	// A client that lets go mid-drag would otherwise leave the gesture stuck
	if ws.svcs.Session.Viewport.State().Gesture != viewport.Idle {
		ws.svcs.Session.Viewport.EndGesture()
	}

	ws.svcs.Log.Infof("WS disconnect session: %v", id)
}

func (ws *WSHandler) HandleMessage(s *melody.Session, msg []byte) {
	req := WSRequest{}
	err := json.Unmarshal(msg, &req)
	if err != nil {
		ws.svcs.Log.Errorf("HandleMessage: Error while decoding msg %v", err)
		sendForSession(s, &WSMessage{Type: msgResponse, Status: statusBadRequest, ErrorText: err.Error()})
		return
	}

	resp := ws.dispatchWSMessage(req)
	if resp.Status != statusOK {
		id, _ := getSessionID(s)
		ws.svcs.Log.Errorf("WS session %v request %v (%v) failed: %v", id, req.MsgID, req.Type, resp.ErrorText)
	}
	sendForSession(s, resp)
}

func getSessionID(s *melody.Session) (string, bool) {
	_id, ok := s.Get("id")
	if !ok {
		return "", false
	}
	id, ok := _id.(string)
	return id, ok
}

// Notifier implementation, so the REST side and viewport ticks reach socket clients

func (ws *WSHandler) NotifyViewportChanged(state viewport.State) {
	ws.broadcast(&WSMessage{Type: msgViewport, Viewport: &state})
}

func (ws *WSHandler) NotifyContrastChanged(params contrast.Params) {
	ws.broadcast(&WSMessage{Type: msgContrast, Contrast: &params})
}

func (ws *WSHandler) NotifyTargetAdded(target targets.Record) {
	ws.broadcast(&WSMessage{Type: msgTarget, Target: &target})
}
