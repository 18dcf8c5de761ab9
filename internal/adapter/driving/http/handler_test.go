package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wyydra/brocall/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/brocall/internal/adapter/driven/persistence/memory"
	"github.com/Wyydra/brocall/internal/config"
	"github.com/Wyydra/brocall/internal/core/service"
)

type testServer struct {
	srv    *httptest.Server
	router *service.Router
	hub    *ws.Hub
}

func newTestServer(t *testing.T, modify func(*config.Config)) *testServer {
	t.Helper()
	cfg, err := config.LoadAndValidate("", config.Overrides{StaticDir: t.TempDir()})
	require.NoError(t, err)
	if modify != nil {
		modify(cfg)
	}

	hub := ws.NewHub(ws.DefaultOptions())
	router := service.NewRouter(memory.NewConnectionRegistry(), memory.NewRoomTable(), hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx, router) }()

	srv := httptest.NewServer(NewHandler(cfg, hub, router).NewRouter())
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return &testServer{srv: srv, router: router, hub: hub}
}

func (s *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func receive(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSignalingFlow(t *testing.T) {
	s := newTestServer(t, nil)
	a := s.dial(t)
	b := s.dial(t)

	send(t, a, map[string]any{"type": "create_room", "nickname": "A"})
	created := receive(t, a)
	require.Equal(t, "room_created", created["type"])
	roomID := created["roomId"].(string)
	aID := created["clientId"].(string)
	assert.Len(t, roomID, 6)
	assert.Equal(t, strings.ToUpper(roomID), roomID)

	send(t, b, map[string]any{"type": "join_room", "roomId": roomID, "nickname": "B"})
	newPeer := receive(t, a)
	assert.Equal(t, "new_peer", newPeer["type"])
	assert.Equal(t, "B", newPeer["nickname"])
	bID := newPeer["newPeerId"].(string)

	joined := receive(t, b)
	assert.Equal(t, map[string]any{
		"type":     "join_success",
		"roomId":   roomID,
		"clientId": bID,
		"peers":    map[string]any{aID: map[string]any{"nickname": "A"}},
	}, joined)

	// Garbage is discarded and the connection stays usable.
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("{not json")))
	send(t, a, map[string]any{"type": "bogus"})

	send(t, a, map[string]any{"type": "offer", "targetId": bID, "sdp": "v=0", "senderId": "liar"})
	offer := receive(t, b)
	assert.Equal(t, map[string]any{
		"type":     "offer",
		"targetId": bID,
		"sdp":      "v=0",
		"senderId": aID,
		"nickname": "A",
	}, offer)

	rooms, clients := s.router.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 2, clients)

	require.NoError(t, a.Close())
	gone := receive(t, b)
	assert.Equal(t, map[string]any{"type": "peer_disconnected", "peerId": aID}, gone)

	require.NoError(t, b.Close())
	assert.Eventually(t, func() bool {
		rooms, clients := s.router.Stats()
		return rooms == 0 && clients == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJoinUnknownRoom(t *testing.T) {
	s := newTestServer(t, nil)
	c := s.dial(t)

	send(t, c, map[string]any{"type": "join_room", "roomId": "ZZZZZZ", "nickname": "C"})
	assert.Equal(t, map[string]any{"type": "join_error", "message": "Room not found."}, receive(t, c))
}

func TestHealthAndStats(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(s.srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var stats map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, map[string]int{"rooms": 0, "clients": 0}, stats)
}

func TestServeICE(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.ICE.STUNServers = []string{"stun:stun.example:3478"}
		c.ICE.TURNServers = []string{"turn:turn.example:3478"}
		c.ICE.TURNUsername = "user"
		c.ICE.TURNPassword = "pass"
	})

	resp, err := http.Get(s.srv.URL + "/ice")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		ICEServers []struct {
			URLs       []string `json:"urls"`
			Username   string   `json:"username"`
			Credential any      `json:"credential"`
		} `json:"iceServers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.ICEServers, 2)
	assert.Equal(t, []string{"stun:stun.example:3478"}, body.ICEServers[0].URLs)
	assert.Equal(t, []string{"turn:turn.example:3478"}, body.ICEServers[1].URLs)
	assert.Equal(t, "user", body.ICEServers[1].Username)
	assert.Equal(t, "pass", body.ICEServers[1].Credential)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>BroCall</h1>"), 0o644))
	s := newTestServer(t, func(c *config.Config) { c.Server.StaticDir = dir })

	resp, err := http.Get(s.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no list allows all", origin: "https://evil.example", want: true},
		{name: "listed origin", allowed: []string{"https://brocall.example"}, origin: "https://brocall.example", want: true},
		{name: "unlisted origin", allowed: []string{"https://brocall.example"}, origin: "https://evil.example", want: false},
		{name: "no origin header", allowed: []string{"https://brocall.example"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, checkOrigin(tt.allowed)(r))
		})
	}
}
