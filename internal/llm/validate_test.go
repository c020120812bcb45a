package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verdictSchema() *Schema {
	return &Schema{
		Name:        "test-verdict",
		Description: "A test verdict",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"predictedSign": map[string]any{"type": "string"},
				"confidence":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
				"hand":          map[string]any{"type": "string", "enum": []any{"left", "right", "both"}},
			},
			"required": []any{"predictedSign", "confidence"},
		},
	}
}

func TestDecodeStructured(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "plain", text: `{"predictedSign":"one","confidence":0.9,"hand":"right"}`, want: `{"predictedSign":"one","confidence":0.9,"hand":"right"}`},
		{name: "optional omitted", text: `{"predictedSign":"two","confidence":0.4}`, want: `{"predictedSign":"two","confidence":0.4}`},
		{name: "json fence", text: "```json\n{\"predictedSign\":\"A\",\"confidence\":1}\n```", want: `{"predictedSign":"A","confidence":1}`},
		{name: "bare fence", text: "  ```\n{\"predictedSign\":\"A\",\"confidence\":1}```  ", want: `{"predictedSign":"A","confidence":1}`},
		{name: "missing required", text: `{"predictedSign":"three"}`, wantErr: true},
		{name: "wrong type", text: `{"predictedSign":"four","confidence":"high"}`, wantErr: true},
		{name: "out of range", text: `{"predictedSign":"five","confidence":1.5}`, wantErr: true},
		{name: "bad enum", text: `{"predictedSign":"six","confidence":0.5,"hand":"foot"}`, wantErr: true},
		{name: "prose", text: `The learner is signing the letter B.`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeStructured(verdictSchema(), tt.text)
			if tt.wantErr {
				var invalid *ErrInvalidResponse
				require.ErrorAs(t, err, &invalid)
				assert.NotEmpty(t, invalid.Content)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestDecodeStructuredWithoutSchema(t *testing.T) {
	got, err := decodeStructured(nil, "free text")
	require.NoError(t, err)
	assert.Equal(t, "free text", string(got))
}

func TestDecodeStructuredNestedObjects(t *testing.T) {
	schema := &Schema{
		Name: "test-nested",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"frames": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"frames"},
		},
	}

	_, err := decodeStructured(schema, `{"frames":[1,2,3]}`)
	assert.NoError(t, err)

	_, err = decodeStructured(schema, `{"frames":["a"]}`)
	assert.Error(t, err)
}

func TestCheckTruncated(t *testing.T) {
	assert.NoError(t, checkTruncated("end", `{}`))

	err := checkTruncated("max_tokens", `{"predictedSign":"o`)
	var truncated *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, `{"predictedSign":"o`, string(truncated.Content))
}

func TestValidateRequest(t *testing.T) {
	img := Image{MediaType: "image/jpeg", Data: []byte{1}}
	tooMany := make([]Image, MaxImages+1)
	for i := range tooMany {
		tooMany[i] = img
	}

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{name: "no messages", req: Request{}, wantErr: "no messages"},
		{name: "text only", req: Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}},
		{name: "user images", req: Request{Messages: []Message{{Role: RoleUser, Images: []Image{img}}}}},
		{name: "assistant images", req: Request{Messages: []Message{{Role: RoleAssistant, Images: []Image{img}}}}, wantErr: "only allowed in user messages"},
		{name: "empty image", req: Request{Messages: []Message{{Role: RoleUser, Images: []Image{{MediaType: "image/jpeg"}}}}}, wantErr: "is empty"},
		{name: "bitmap", req: Request{Messages: []Message{{Role: RoleUser, Images: []Image{{MediaType: "image/bmp", Data: []byte{1}}}}}}, wantErr: "unsupported type"},
		{name: "too many frames", req: Request{Messages: []Message{{Role: RoleUser, Images: tooMany}}}, wantErr: "exceed the limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var unsupported *ErrUnsupportedInput
			require.True(t, errors.As(err, &unsupported), "got %T", err)
			assert.True(t, strings.Contains(unsupported.Reason, tt.wantErr), unsupported.Reason)
		})
	}
}
