package ws

import (
	"encoding/json"

	"github.com/olahol/melody"
)

func sendForSession(s *melody.Session, wsmsg *WSMessage) {
	bytes, err := json.Marshal(wsmsg)
	if err != nil {
		s.CloseWithMsg([]byte(err.Error()))
		return
	}

	s.Write(bytes)
}

func (ws *WSHandler) broadcast(wsmsg *WSMessage) {
	bytes, err := json.Marshal(wsmsg)
	if err != nil {
		ws.svcs.Log.Errorf("Failed to encode %v broadcast: %v", wsmsg.Type, err)
		return
	}

	if err := ws.melody.Broadcast(bytes); err != nil {
		// Melody only fails here once closed, which happens during shutdown
		ws.svcs.Log.Debugf("Broadcast of %v dropped: %v", wsmsg.Type, err)
	}
}
