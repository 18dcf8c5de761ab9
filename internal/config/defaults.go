package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAddr            = ":8080"
	DefaultStaticDir       = "./static"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096
	DefaultMaxMessageSize  = 64 * 1024
	DefaultSendBufferSize  = 256
	DefaultWriteWait       = 10 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultSTUNServer      = "stun:stun.l.google.com:19302"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.WebSocket.ReadBufferSize == 0 {
		c.WebSocket.ReadBufferSize = DefaultReadBufferSize
	}
	if c.WebSocket.WriteBufferSize == 0 {
		c.WebSocket.WriteBufferSize = DefaultWriteBufferSize
	}
	if c.WebSocket.MaxMessageSize == 0 {
		c.WebSocket.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.WebSocket.SendBufferSize == 0 {
		c.WebSocket.SendBufferSize = DefaultSendBufferSize
	}
	if c.WebSocket.WriteWait == 0 {
		c.WebSocket.WriteWait = DefaultWriteWait
	}
	if c.WebSocket.PongWait == 0 {
		c.WebSocket.PongWait = DefaultPongWait
	}

	if len(c.ICE.STUNServers) == 0 {
		c.ICE.STUNServers = []string{DefaultSTUNServer}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
