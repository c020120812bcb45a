package recognition

import (
	"fmt"
	"log/slog"

	"github.com/edusign/edusign/internal/llm"
	"github.com/edusign/edusign/internal/store"
)

// New builds the configured Recognizer wrapped with retry and logging:
// caller → retry → logging → backend. provider is only used by the vision
// backend and may be nil otherwise. eventRepo may be nil.
func New(cfg Config, provider llm.Provider, eventRepo store.EventRepo, logger *slog.Logger) (Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Recognizer
	switch cfg.Backend {
	case "http":
		base = NewClient(cfg.URL, cfg.Timeout)
	case "vision":
		if provider == nil {
			return nil, fmt.Errorf("vision backend requires an LLM provider")
		}
		base = NewVisionRecognizer(provider, cfg.Labels)
	case "mock":
		base = NewMock()
	}

	logged := WithLogging(base, eventRepo, logger)
	return WithRetry(logged, cfg.Retry), nil
}
