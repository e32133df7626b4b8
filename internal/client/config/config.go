// Package config assembles runtime settings for the Dorm Deals CLI from
// defaults, an optional JSON file and command-line flags, in that order.
package config

import "time"

// Config holds runtime settings for the Dorm Deals CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API, without trailing slash.
//   - DatabasePath: path of the local SQLite file holding the saved session.
//   - RequestTimeout: per-request timeout for API calls.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
