package http

import (
	"net/http"
	"slices"

	"github.com/Wyydra/brocall/internal/adapter/driven/gateway/ws"
	"github.com/rs/zerolog/log"
)

// checkOrigin allows every origin when the list is empty, as browsers open the
// socket from wherever the client page is hosted.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// HTTP handler
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := ws.NewClient(h.Hub, conn)
	if err := h.Hub.Register(client); err != nil {
		log.Warn().Err(err).Msg("Rejecting connection")
		conn.Close()
		return
	}

	l := log.With().Str("client_id", client.ID().String()).Str("remote_addr", r.RemoteAddr).Logger()
	l.Info().Msg("New client connected")

	go client.WritePump()
	client.ReadPump()

	l.Info().Msg("Client disconnected")
}
