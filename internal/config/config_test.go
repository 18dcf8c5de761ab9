package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "STATIC_DIR", "ALLOWED_ORIGINS", "STUN_SERVER", "TURN_SERVER",
		"TURN_USERNAME", "TURN_PASSWORD", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	yaml := `
server:
  addr: ":9000"
  static_dir: /srv/www
  allowed_origins: ["https://brocall.example"]
websocket:
  pong_wait: 30s
  send_buffer_size: 64
ice:
  stun_servers: ["stun:stun.example:3478"]
log:
  level: debug
  format: json
`
	cfg, err := LoadAndValidate(writeTempFile(t, "config.yaml", yaml), Overrides{})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/srv/www", cfg.Server.StaticDir)
	assert.Equal(t, []string{"https://brocall.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 64, cfg.WebSocket.SendBufferSize)
	assert.Equal(t, DefaultWriteWait, cfg.WebSocket.WriteWait)
	assert.Equal(t, []string{"stun:stun.example:3478"}, cfg.ICE.STUNServers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadAndValidate("", Overrides{})
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultStaticDir, cfg.Server.StaticDir)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(DefaultMaxMessageSize), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, DefaultSendBufferSize, cfg.WebSocket.SendBufferSize)
	assert.Equal(t, DefaultPongWait, cfg.WebSocket.PongWait)
	assert.Equal(t, []string{DefaultSTUNServer}, cfg.ICE.STUNServers)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_TURN_PASSWORD", "secret123")

	yaml := `
ice:
  turn_servers: ["turn:turn.example:3478"]
  turn_username: brocall
  turn_password: ${TEST_TURN_PASSWORD}
`
	cfg, err := LoadAndValidate(writeTempFile(t, "config.yaml", yaml), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "secret123", cfg.ICE.TURNPassword)
}

func TestLoadKeepsLiteralDollars(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_TURN_USER", "brocall")

	yaml := `
ice:
  turn_servers: ["turn:turn.example:3478"]
  turn_username: ${TEST_TURN_USER}
  turn_password: pa$$word$HOME
`
	cfg, err := LoadAndValidate(writeTempFile(t, "config.yaml", yaml), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "brocall", cfg.ICE.TURNUsername)
	assert.Equal(t, "pa$$word$HOME", cfg.ICE.TURNPassword)
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("TURN_SERVER", "turn:a.example, turn:b.example")
	t.Setenv("TURN_USERNAME", "u")
	t.Setenv("TURN_PASSWORD", "p")

	yaml := `
server:
  addr: ":9000"
  static_dir: /from/file
log:
  level: debug
`
	path := writeTempFile(t, "config.yaml", yaml)

	cfg, err := LoadAndValidate(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr, "env beats file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/from/file", cfg.Server.StaticDir)
	assert.Equal(t, []string{"turn:a.example", "turn:b.example"}, cfg.ICE.TURNServers)

	cfg, err = LoadAndValidate(path, Overrides{Addr: "127.0.0.1:1234", StaticDir: "/from/flag", LogFormat: "JSON"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Addr, "flag beats env")
	assert.Equal(t, "/from/flag", cfg.Server.StaticDir)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeTempFile(t, "bad.yaml", "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "empty addr", modify: func(c *Config) { c.Server.Addr = "" }, wantErr: true},
		{name: "negative send buffer", modify: func(c *Config) { c.WebSocket.SendBufferSize = -1 }, wantErr: true},
		{name: "zero pong wait", modify: func(c *Config) { c.WebSocket.PongWait = 0 }, wantErr: true},
		{name: "zero max message", modify: func(c *Config) { c.WebSocket.MaxMessageSize = 0 }, wantErr: true},
		{name: "turn without credentials", modify: func(c *Config) { c.ICE.TURNServers = []string{"turn:x"} }, wantErr: true},
		{name: "unknown log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "unknown log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("BROCALL_DOTENV_TEST", "")
	os.Unsetenv("BROCALL_DOTENV_TEST")
	path := writeTempFile(t, ".env", "BROCALL_DOTENV_TEST=from-dotenv\n")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("BROCALL_DOTENV_TEST"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")), "missing file is fine")
}
