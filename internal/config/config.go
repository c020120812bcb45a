// Package config loads the EduSign configuration from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edusign/edusign/internal/camera/webcam"
	"github.com/edusign/edusign/internal/emitter"
	"github.com/edusign/edusign/internal/llm"
	"github.com/edusign/edusign/internal/logging"
	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/recognition"
	"github.com/edusign/edusign/internal/server"
)

// Config is the complete EduSign configuration.
type Config struct {
	Quiz         quiz.Config        `yaml:"quiz"`
	Camera       CameraConfig       `yaml:"camera"`
	Recognition  recognition.Config `yaml:"recognition"`
	LLM          llm.Config         `yaml:"llm"`
	Server       server.Config      `yaml:"server"`
	Store        StoreConfig        `yaml:"store"`
	MQTT         emitter.Config     `yaml:"mqtt"`
	Log          logging.Config     `yaml:"log"`
	QuestionSets []quiz.QuestionSet `yaml:"question_sets"`
}

// Camera sources.
const (
	CameraWebcam  = "webcam"
	CameraPattern = "pattern"
	CameraDir     = "dir"
)

// CameraConfig selects where the terminal quiz takes frames from.
type CameraConfig struct {
	Source string        `yaml:"source"` // webcam, pattern, dir
	Dir    string        `yaml:"dir"`    // replay directory for the dir source
	Webcam webcam.Config `yaml:"webcam"`
}

// StoreConfig locates the journal database.
type StoreConfig struct {
	// Path overrides the default database location.
	Path string `yaml:"path"`
}

// Default returns every section's defaults.
func Default() Config {
	return Config{
		Quiz:        quiz.DefaultConfig(),
		Camera:      CameraConfig{Source: CameraWebcam, Webcam: webcam.DefaultConfig()},
		Recognition: recognition.DefaultConfig(),
		LLM:         llm.DefaultConfig(),
		Server:      server.DefaultConfig(),
		MQTT:        emitter.DefaultConfig(),
		Log:         logging.DefaultConfig(),
	}
}

// Path returns the config file to load: flagValue, else EDUSIGN_CONFIG.
// Empty means no file.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("EDUSIGN_CONFIG")
}

// Load reads path over the defaults, applies EDUSIGN_* overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnv()

	if cfg.Recognition.Backend == "vision" && !cfg.LLM.HasKey() {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Retry = cfg.LLM.Retry
			discovered.Timeout = cfg.LLM.Timeout
			cfg.LLM = discovered
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from EDUSIGN_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Camera.Source, "EDUSIGN_CAMERA_SOURCE")
	set(&c.Camera.Dir, "EDUSIGN_CAMERA_DIR")
	set(&c.Server.Addr, "EDUSIGN_SERVER_ADDR")
	set(&c.Log.Level, "EDUSIGN_LOG_LEVEL")
	set(&c.Log.Format, "EDUSIGN_LOG_FORMAT")

	if broker := os.Getenv("EDUSIGN_MQTT_BROKER"); broker != "" {
		c.MQTT.Broker = broker
		c.MQTT.Enabled = true
	}

	c.Recognition.ApplyEnv()
	c.LLM.ApplyEnv()
}

// Validate checks every section and joins the errors.
func (c Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(c.Quiz.Validate())
	add(c.Camera.Validate())
	add(c.Recognition.Validate())
	add(c.Server.Validate())
	add(c.MQTT.Validate())
	if c.Recognition.Backend == "vision" {
		add(c.LLM.Validate())
	}

	names := map[string]bool{}
	for _, s := range c.QuestionSets {
		add(s.Validate())
		if names[s.Name] {
			add(fmt.Errorf("question set %q defined twice", s.Name))
		}
		names[s.Name] = true
	}
	return errors.Join(errs...)
}

// Validate checks the camera source selection.
func (c CameraConfig) Validate() error {
	switch strings.ToLower(c.Source) {
	case CameraWebcam, CameraPattern:
		return nil
	case CameraDir:
		if c.Dir == "" {
			return fmt.Errorf("camera dir is required for the dir source")
		}
		return nil
	}
	return fmt.Errorf("unknown camera source: %q", c.Source)
}
