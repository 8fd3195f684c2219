package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// DatabasePath is the SQLite session database. Empty disables
	// persistence; the server then runs memory-only.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// SessionSecret signs session cookies. Must stay stable across
	// restarts or clients lose their identities.
	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	// SendQueueSize is the per-connection outbound buffer; a client
	// that falls this far behind starts losing frames.
	SendQueueSize int `mapstructure:"send_queue_size" yaml:"send_queue_size"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "roomcast.db",
		SessionTTL:        30 * 24 * time.Hour,
		SendQueueSize:     32,
	}
}
