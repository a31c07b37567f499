package config

import "time"

// Config holds runtime settings for the Quizdeck CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - RequestTimeout: upper bound for every auth round-trip; a call that
//     exceeds it resolves to a failure instead of hanging.
//   - DataFile: path of the local SQLite database holding the credential
//     and the provisional user cache.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DataFile       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.DataFile = "quizdeck.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
