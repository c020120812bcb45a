package recognition

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the recognition backend.
type Config struct {
	// Backend is one of "http", "vision", "mock".
	Backend string `yaml:"backend"`

	// URL is the recognition endpoint for the http backend.
	URL string `yaml:"url"`

	// Timeout bounds a single attempt.
	Timeout time.Duration `yaml:"timeout"`

	Retry RetryConfig `yaml:"retry"`

	// Labels are the signs the vision backend may answer with.
	Labels []string `yaml:"labels"`
}

// RetryConfig configures retries of transient backend failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig targets a recognition service on localhost:8000.
func DefaultConfig() Config {
	return Config{
		Backend: "http",
		URL:     "http://localhost:8000/api/quiz",
		Timeout: 30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Labels: []string{"one", "two", "three", "four", "five"},
	}
}

// ApplyEnv overrides fields from EDUSIGN_RECOGNITION_* variables.
func (c *Config) ApplyEnv() {
	if b := os.Getenv("EDUSIGN_RECOGNITION_BACKEND"); b != "" {
		c.Backend = b
	}
	if u := os.Getenv("EDUSIGN_RECOGNITION_URL"); u != "" {
		c.URL = u
	}
	if t := os.Getenv("EDUSIGN_RECOGNITION_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			c.Timeout = d
		}
	}
	if l := os.Getenv("EDUSIGN_RECOGNITION_LABELS"); l != "" {
		var labels []string
		for _, label := range strings.Split(l, ",") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
		c.Labels = labels
	}
}

// Validate checks that the selected backend is usable.
func (c Config) Validate() error {
	switch c.Backend {
	case "http":
		if c.URL == "" {
			return fmt.Errorf("recognition url is required for the http backend")
		}
	case "vision":
		if len(c.Labels) == 0 {
			return fmt.Errorf("recognition labels are required for the vision backend")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown recognition backend: %q", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("recognition timeout must be positive")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("recognition retry.max_attempts must be at least 1")
	}
	return nil
}
