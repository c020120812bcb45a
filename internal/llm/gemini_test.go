package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"
)

func TestBuildGeminiContents_InlineImages(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "Which sign?", Images: []Image{{MediaType: "image/jpeg", Data: []byte{1, 2, 3}}}},
		{Role: RoleAssistant, Content: "ok"},
	})

	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[1].Role != "model" {
		t.Errorf("assistant role = %q, want model", contents[1].Role)
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(parts))
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/jpeg" || len(parts[1].InlineData.Data) != 3 {
		t.Errorf("unexpected inline data: %+v", parts[1].InlineData)
	}
}

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"predictedSign": map[string]any{"type": "string"},
			"frames":        map[string]any{"type": "integer"},
			"hand":          map[string]any{"type": "string", "enum": []any{"left", "right", "both"}},
			"scores": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"predictedSign", "frames"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["predictedSign"].Type != "STRING" {
		t.Fatalf("expected STRING for predictedSign, got %s", schema.Properties["predictedSign"].Type)
	}
	if schema.Properties["frames"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for frames, got %s", schema.Properties["frames"].Type)
	}
	if len(schema.Properties["hand"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["hand"].Enum))
	}
	if schema.Properties["scores"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for scores, got %s", schema.Properties["scores"].Type)
	}
	if schema.Properties["scores"].Items.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for scores items, got %s", schema.Properties["scores"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGeminiProvider_Generate(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": `{"predictedSign":"B","confidence":0.7}`}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     300,
				"candidatesTokenCount": 12,
				"totalTokenCount":      312,
			},
		})
	})

	resp, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Which sign?", Images: []Image{{MediaType: "image/jpeg", Data: []byte{0xff}}}}},
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Content) != `{"predictedSign":"B","confidence":0.7}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 312 {
		t.Errorf("total tokens = %d, want 312", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
}

func TestGeminiProvider_SafetyBlock(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Which sign?"}},
		MaxTokens: 100,
	})
	var unsupported *ErrUnsupportedInput
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupportedInput, got %T (%v)", err, err)
	}
	if IsTransient(err) {
		t.Error("a blocked prompt should not be retried")
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	var unsupported *ErrUnsupportedInput
	var unavailable *ErrProviderUnavailable

	if err := mapGeminiError(genai.APIError{Code: http.StatusTooManyRequests}); !errors.As(err, &rl) {
		t.Errorf("429: got %T", err)
	}
	if err := mapGeminiError(genai.APIError{Code: http.StatusBadRequest, Message: "image too large"}); !errors.As(err, &unsupported) {
		t.Errorf("400: got %T", err)
	} else if unsupported.Reason != "image too large" {
		t.Errorf("reason = %q", unsupported.Reason)
	}
	if err := mapGeminiError(genai.APIError{Code: http.StatusServiceUnavailable}); !errors.As(err, &unavailable) {
		t.Errorf("503: got %T", err)
	}
	if err := mapGeminiError(errors.New("dial tcp: refused")); !errors.As(err, &unavailable) {
		t.Errorf("network: got %T", err)
	}
}
