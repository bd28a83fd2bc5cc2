// Package config loads runtime settings for the fieldlog CLI.
package config

// Config holds runtime settings.
//
// Fields:
//   - DataDir: directory holding the records and blob database files and
//     resolved photo handles.
//   - LogLevel: minimum slog level ("debug", "info", "warn", "error").
type Config struct {
	DataDir  string
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "fieldlog-data"
	c.LogLevel = "info"
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
