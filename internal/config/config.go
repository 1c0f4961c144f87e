package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAddress is shown as the input placeholder.
const DefaultAddress = "wss://homework.rain.gg:8765"

type Config struct {
	Viewer ViewerConfig `yaml:"viewer"`
	Feed   FeedConfig   `yaml:"feed"`
}

type ViewerConfig struct {
	URL              string          `yaml:"url"`
	HandshakeTimeout time.Duration   `yaml:"handshake_timeout"`
	ReadLimit        int64           `yaml:"read_limit"`
	LogFile          string          `yaml:"log_file"`
	Smoothing        SmoothingConfig `yaml:"smoothing"`
}

// SmoothingConfig tunes the spring that animates stick needles.
type SmoothingConfig struct {
	FPS       int     `yaml:"fps"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

type FeedConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Path           string   `yaml:"path"`
	Rate           float64  `yaml:"rate"` // frames per second
	Burst          int      `yaml:"burst"`
	MalformedEvery int      `yaml:"malformed_every"` // 0 disables
	Buttons        []string `yaml:"buttons"`
	Sticks         []string `yaml:"sticks"`
}

func defaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			HandshakeTimeout: 10 * time.Second,
			ReadLimit:        1 << 20,
			Smoothing: SmoothingConfig{
				FPS:       30,
				Frequency: 6.0,
				Damping:   0.8,
			},
		},
		Feed: FeedConfig{
			Host:    "127.0.0.1",
			Port:    8765,
			Path:    "/",
			Rate:    20,
			Burst:   1,
			Buttons: []string{"A", "B", "X", "Y", "LB", "RB", "Start", "Select"},
			Sticks:  []string{"left", "right"},
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to the defaults
// when it does not. An empty path means defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Viewer.HandshakeTimeout <= 0 {
		errs = append(errs, errors.New("viewer.handshake_timeout must be positive"))
	}
	if c.Viewer.ReadLimit <= 0 {
		errs = append(errs, errors.New("viewer.read_limit must be positive"))
	}
	if c.Viewer.Smoothing.FPS <= 0 || c.Viewer.Smoothing.FPS > 120 {
		errs = append(errs, fmt.Errorf("viewer.smoothing.fps %d out of range (1-120)", c.Viewer.Smoothing.FPS))
	}
	if c.Viewer.Smoothing.Frequency <= 0 {
		errs = append(errs, errors.New("viewer.smoothing.frequency must be positive"))
	}
	if c.Viewer.Smoothing.Damping < 0 {
		errs = append(errs, errors.New("viewer.smoothing.damping must not be negative"))
	}
	if c.Feed.Port < 0 || c.Feed.Port > 65535 {
		errs = append(errs, fmt.Errorf("feed.port %d out of range", c.Feed.Port))
	}
	if c.Feed.Rate <= 0 {
		errs = append(errs, errors.New("feed.rate must be positive"))
	}
	if c.Feed.Burst < 1 {
		errs = append(errs, errors.New("feed.burst must be at least 1"))
	}
	if c.Feed.MalformedEvery < 0 {
		errs = append(errs, errors.New("feed.malformed_every must not be negative"))
	}
	if c.Feed.Path == "" || c.Feed.Path[0] != '/' {
		errs = append(errs, fmt.Errorf("feed.path %q must start with /", c.Feed.Path))
	}
	return errors.Join(errs...)
}

// FeedAddr returns host:port for the feed listener.
func (c *Config) FeedAddr() string {
	return fmt.Sprintf("%s:%d", c.Feed.Host, c.Feed.Port)
}
