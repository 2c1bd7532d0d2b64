package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names accepted in network.transport.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

type Config struct {
	Network NetworkConfig `yaml:"network"`
	Game    GameConfig    `yaml:"game"`
	Display DisplayConfig `yaml:"display"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
}

type NetworkConfig struct {
	Transport  string `yaml:"transport"`
	ListenHost string `yaml:"listen_host"`
	PeerHost   string `yaml:"peer_host"`
	Port       int    `yaml:"port"`
	Path       string `yaml:"path"` // websocket only
}

type GameConfig struct {
	MaxWrongGuesses int      `yaml:"max_wrong_guesses"`
	Words           []string `yaml:"words"`
	RefreshRate     int      `yaml:"refresh_rate"` // ticks per second
}

type DisplayConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
	Hold        time.Duration `yaml:"hold"`
}

type StoreConfig struct {
	Dir string `yaml:"dir"` // empty: $XDG_STATE_HOME/netgallows
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// DefaultWords is the word pool used when the config names none.
var DefaultWords = []string{
	"PYTHON", "PYGAME", "CYBER", "PACKET", "GAME",
	"NETWORK", "SOCKET", "SECURITY", "DEVELOPER", "HANGMAN",
}

func defaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			Transport:  TransportTCP,
			ListenHost: "0.0.0.0",
			PeerHost:   "127.0.0.1",
			Port:       8100,
			Path:       "/duel",
		},
		Game: GameConfig{
			MaxWrongGuesses: 6,
			Words:           append([]string(nil), DefaultWords...),
			RefreshRate:     60,
		},
		Display: DisplayConfig{
			SettleDelay: time.Second,
			Hold:        3 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment variables are expanded inside the file, then
// NETGALLOWS_* overrides are applied.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else {
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("NETGALLOWS_TRANSPORT"); v != "" {
		cfg.Network.Transport = v
	}
	if v := os.Getenv("NETGALLOWS_PEER_HOST"); v != "" {
		cfg.Network.PeerHost = v
	}
	if v := os.Getenv("NETGALLOWS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NETGALLOWS_PORT: %w", err)
		}
		cfg.Network.Port = port
	}
	if v := os.Getenv("NETGALLOWS_STATE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("NETGALLOWS_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func (c *Config) normalize() {
	c.Network.Transport = strings.ToLower(strings.TrimSpace(c.Network.Transport))
	if c.Network.Path != "" && !strings.HasPrefix(c.Network.Path, "/") {
		c.Network.Path = "/" + c.Network.Path
	}
	words := c.Game.Words[:0]
	for _, w := range c.Game.Words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	c.Game.Words = words
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Network.Transport {
	case TransportTCP, TransportWebSocket:
	default:
		return fmt.Errorf("network.transport: unsupported %q", c.Network.Transport)
	}
	if c.Network.Port < 0 || c.Network.Port > 65535 {
		return fmt.Errorf("network.port: %d out of range", c.Network.Port)
	}
	if c.Game.MaxWrongGuesses < 1 {
		return fmt.Errorf("game.max_wrong_guesses: must be at least 1, got %d", c.Game.MaxWrongGuesses)
	}
	if c.Game.RefreshRate < 1 {
		return fmt.Errorf("game.refresh_rate: must be at least 1, got %d", c.Game.RefreshRate)
	}
	if len(c.Game.Words) == 0 {
		return fmt.Errorf("game.words: empty word list")
	}
	for _, w := range c.Game.Words {
		for _, r := range w {
			if r < 'A' || r > 'Z' {
				return fmt.Errorf("game.words: %q contains %q, only A-Z allowed", w, r)
			}
		}
	}
	if c.Display.SettleDelay < 0 || c.Display.Hold < 0 {
		return fmt.Errorf("display: durations must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// ListenAddr is the address the initiator binds.
func (n NetworkConfig) ListenAddr() string {
	return net.JoinHostPort(n.ListenHost, strconv.Itoa(n.Port))
}

// PeerAddr is the address the responder dials.
func (n NetworkConfig) PeerAddr() string {
	return net.JoinHostPort(n.PeerHost, strconv.Itoa(n.Port))
}

// TickInterval is the frame period of the game loop.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Game.RefreshRate)
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
