package config

import "time"

// Config is the root configuration of the signaling server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	ICE       ICEConfig       `yaml:"ice"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// AllowedOrigins restricts websocket upgrades. Empty allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig tunes the per-connection pumps.
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	MaxMessageSize  int64         `yaml:"max_message_size"`
	SendBufferSize  int           `yaml:"send_buffer_size"`
	WriteWait       time.Duration `yaml:"write_wait"`
	PongWait        time.Duration `yaml:"pong_wait"`
}

// ICEConfig lists the STUN/TURN servers advertised to browsers.
type ICEConfig struct {
	STUNServers  []string `yaml:"stun_servers"`
	TURNServers  []string `yaml:"turn_servers"`
	TURNUsername string   `yaml:"turn_username"`
	TURNPassword string   `yaml:"turn_password"`
}

// LogConfig selects verbosity and output format ("console" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Overrides carries command line flags; non-zero fields win over file and env.
type Overrides struct {
	Addr      string
	StaticDir string
	LogLevel  string
	LogFormat string
}
