package http

import (
	"encoding/json"
	"net/http"

	"github.com/Wyydra/brocall/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/brocall/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// StatsProvider reports current room and connection counts.
type StatsProvider interface {
	Stats() (rooms, clients int)
}

type Handler struct {
	Hub   *ws.Hub
	Stats StatsProvider

	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewHandler(cfg *config.Config, hub *ws.Hub, stats StatsProvider) *Handler {
	return &Handler{
		Hub:   hub,
		Stats: stats,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin:     checkOrigin(cfg.Server.AllowedOrigins),
		},
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)
	r.Get("/health", h.Health)
	r.Get("/stats", h.ServeStats)
	r.Get("/ice", h.ServeICE)

	fs := http.FileServer(http.Dir(h.cfg.Server.StaticDir))
	r.Handle("/*", fs)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	rooms, clients := h.Stats.Stats()
	writeJSON(w, map[string]int{"rooms": rooms, "clients": clients})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error while writing response")
	}
}
