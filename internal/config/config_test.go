package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network.Port != 8100 {
		t.Errorf("Port = %d, want 8100", cfg.Network.Port)
	}
	if cfg.Network.ListenAddr() != "0.0.0.0:8100" {
		t.Errorf("ListenAddr() = %q", cfg.Network.ListenAddr())
	}
	if cfg.Network.PeerAddr() != "127.0.0.1:8100" {
		t.Errorf("PeerAddr() = %q", cfg.Network.PeerAddr())
	}
	if cfg.Game.MaxWrongGuesses != 6 {
		t.Errorf("MaxWrongGuesses = %d, want 6", cfg.Game.MaxWrongGuesses)
	}
	if len(cfg.Game.Words) != len(DefaultWords) {
		t.Errorf("Words = %v", cfg.Game.Words)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval() = %v", cfg.TickInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
network:
  transport: WebSocket
  peer_host: 10.0.0.7
  port: 9100
  path: match
game:
  max_wrong_guesses: 4
  words: [" gopher ", channel, ""]
display:
  settle_delay: 250ms
  hold: 2s
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Network.Transport != TransportWebSocket {
		t.Errorf("Transport = %q", cfg.Network.Transport)
	}
	if cfg.Network.PeerAddr() != "10.0.0.7:9100" {
		t.Errorf("PeerAddr() = %q", cfg.Network.PeerAddr())
	}
	if cfg.Network.ListenHost != "0.0.0.0" {
		t.Errorf("ListenHost default lost: %q", cfg.Network.ListenHost)
	}
	if cfg.Network.Path != "/match" {
		t.Errorf("Path = %q", cfg.Network.Path)
	}
	if got := cfg.Game.Words; len(got) != 2 || got[0] != "GOPHER" || got[1] != "CHANNEL" {
		t.Errorf("Words = %v", got)
	}
	if cfg.Game.MaxWrongGuesses != 4 {
		t.Errorf("MaxWrongGuesses = %d", cfg.Game.MaxWrongGuesses)
	}
	if cfg.Display.SettleDelay != 250*time.Millisecond || cfg.Display.Hold != 2*time.Second {
		t.Errorf("Display = %+v", cfg.Display)
	}
	lvl, err := cfg.LogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v", lvl, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NETGALLOWS_PORT", "9200")
	t.Setenv("NETGALLOWS_LOG_FILE", "/tmp/duel.log")
	t.Setenv("DUEL_HOST", "192.168.1.4")

	path := writeConfig(t, "network:\n  peer_host: ${DUEL_HOST}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network.Port != 9200 {
		t.Errorf("Port = %d, want 9200", cfg.Network.Port)
	}
	if cfg.Network.PeerHost != "192.168.1.4" {
		t.Errorf("PeerHost = %q", cfg.Network.PeerHost)
	}
	if cfg.Log.File != "/tmp/duel.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoadBadPortEnv(t *testing.T) {
	t.Setenv("NETGALLOWS_PORT", "eighty")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "network: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown transport", func(c *Config) { c.Network.Transport = "udp" }},
		{"port too large", func(c *Config) { c.Network.Port = 70000 }},
		{"zero max wrong", func(c *Config) { c.Game.MaxWrongGuesses = 0 }},
		{"zero refresh", func(c *Config) { c.Game.RefreshRate = 0 }},
		{"no words", func(c *Config) { c.Game.Words = nil }},
		{"non letter word", func(c *Config) { c.Game.Words = []string{"GO1"} }},
		{"negative hold", func(c *Config) { c.Display.Hold = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
