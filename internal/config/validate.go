package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	logFormats = []string{"console", "json"}
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must be >= 0")
	}

	if c.WebSocket.ReadBufferSize < 1 {
		return errors.New("websocket.read_buffer_size must be >= 1")
	}
	if c.WebSocket.WriteBufferSize < 1 {
		return errors.New("websocket.write_buffer_size must be >= 1")
	}
	if c.WebSocket.MaxMessageSize < 1 {
		return errors.New("websocket.max_message_size must be >= 1")
	}
	if c.WebSocket.SendBufferSize < 1 {
		return errors.New("websocket.send_buffer_size must be >= 1")
	}
	if c.WebSocket.WriteWait <= 0 {
		return errors.New("websocket.write_wait must be > 0")
	}
	if c.WebSocket.PongWait <= 0 {
		return errors.New("websocket.pong_wait must be > 0")
	}

	if len(c.ICE.TURNServers) > 0 && (c.ICE.TURNUsername == "" || c.ICE.TURNPassword == "") {
		return errors.New("ice.turn_username and ice.turn_password are required when ice.turn_servers is set")
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v, got %q", logFormats, c.Log.Format)
	}
	return nil
}
