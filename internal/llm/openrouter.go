package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider routes to any vision model listed on OpenRouter through
// its OpenAI-compatible API. Model IDs are vendor-prefixed and passed through
// unchanged, e.g. "google/gemini-2.0-flash-exp".
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, newAttributionClient(http.DefaultClient, cfg.AppURL, cfg.AppTitle))
	if err != nil {
		return nil, err
	}

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionClient adds OpenRouter's optional app attribution headers.
type attributionClient struct {
	inner *http.Client
	url   string
	title string
}

func newAttributionClient(inner *http.Client, url, title string) *attributionClient {
	return &attributionClient{inner: inner, url: url, title: title}
}

func (c *attributionClient) Do(req *http.Request) (*http.Response, error) {
	if c.url != "" {
		req.Header.Set("HTTP-Referer", c.url)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}
	return c.inner.Do(req)
}
