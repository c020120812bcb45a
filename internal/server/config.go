package server

import (
	"fmt"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string `yaml:"addr"`

	// SessionTTL is how long an untouched remote session lives.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// BodyLimit caps request bodies; frame uploads are large.
	BodyLimit int `yaml:"body_limit"`

	AllowOrigins string `yaml:"allow_origins"`

	// RequestLog enables the request logger middleware.
	RequestLog bool `yaml:"request_log"`
}

// DefaultConfig listens on :3000 with a 50 MB body limit and 30 minute sessions.
func DefaultConfig() Config {
	return Config{
		Addr:         ":3000",
		SessionTTL:   30 * time.Minute,
		BodyLimit:    50 * 1024 * 1024,
		AllowOrigins: "*",
		RequestLog:   true,
	}
}

// Validate checks the server settings.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("server session_ttl must be positive")
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("server body_limit must be positive")
	}
	return nil
}
