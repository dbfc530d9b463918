// Package config loads otherside settings from TOML with environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

var (
	ErrMissingConsumer = errors.New("missing consumer key or secret")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config is the full application configuration.
type Config struct {
	LogLevel string        `toml:"log_level"`
	Twitter  TwitterConfig `toml:"twitter"`
	Sync     SyncConfig    `toml:"sync"`
	Server   ServerConfig  `toml:"server"`
}

// TwitterConfig holds the application's API credentials and client settings.
type TwitterConfig struct {
	ConsumerKey    string   `toml:"consumer_key"`
	ConsumerSecret string   `toml:"consumer_secret"`
	APITimeout     Duration `toml:"api_timeout"`
	WebBaseURL     string   `toml:"web_base_url"`
}

// SyncConfig tunes list synchronization.
type SyncConfig struct {
	BatchSize       int     `toml:"batch_size"`
	FollowerPage    int     `toml:"follower_page"`
	ListMode        string  `toml:"list_mode"`
	ListDescription string  `toml:"list_description"`
	BatchRate       float64 `toml:"batch_rate"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the embedded example configuration.
func Default() *Config {
	var c Config
	if err := toml.Unmarshal(exampleConf, &c); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &c
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults plus environment are returned instead.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if _, err := toml.Decode(string(data), c); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	c.Twitter.ConsumerKey = envOr("X_CONSUMER_KEY", c.Twitter.ConsumerKey)
	c.Twitter.ConsumerSecret = envOr("X_CONSUMER_SECRET", c.Twitter.ConsumerSecret)
	c.Server.Addr = envOr("OTHERSIDE_ADDR", c.Server.Addr)
	c.LogLevel = envOr("OTHERSIDE_LOG_LEVEL", c.LogLevel)
}

// Validate checks the settings a sync run cannot do without.
func (c *Config) Validate() error {
	if c.Twitter.ConsumerKey == "" || c.Twitter.ConsumerSecret == "" {
		return ErrMissingConsumer
	}
	if c.Sync.BatchSize < 0 || c.Sync.FollowerPage < 0 || c.Sync.BatchRate < 0 {
		return fmt.Errorf("%w: sync values must not be negative", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Twitter.WebBaseURL, "http") {
		return fmt.Errorf("%w: web_base_url %q", ErrInvalidConfig, c.Twitter.WebBaseURL)
	}
	return nil
}

// WriteExample writes the embedded example config to path, refusing to
// overwrite an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// NewLogger creates a timestamped logger at the configured level. The writer
// defaults to [os.Stderr].
func NewLogger(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
