package http

import (
	"net/http"

	"github.com/pion/webrtc/v4"
)

// ICEServers builds the list a browser passes to RTCPeerConnection.
func (h *Handler) ICEServers() []webrtc.ICEServer {
	ice := h.cfg.ICE
	var servers []webrtc.ICEServer
	if len(ice.STUNServers) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: ice.STUNServers})
	}
	if len(ice.TURNServers) > 0 {
		servers = append(servers, webrtc.ICEServer{
			URLs:       ice.TURNServers,
			Username:   ice.TURNUsername,
			Credential: ice.TURNPassword,
		})
	}
	return servers
}

func (h *Handler) ServeICE(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"iceServers": h.ICEServers()})
}
