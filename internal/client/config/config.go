package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the gophident CLI.
//
// Fields:
//   - ServerURL: base URL of the identity server, without the /api/v1 prefix.
//   - RequestTimeout: upper bound for a single HTTP round trip.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
}

// Load applies defaults, then the JSON file (if -c/-config is given), then
// command-line flags. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("invalid config: server url is empty")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("invalid config: request timeout must be positive")
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
