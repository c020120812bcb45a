package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MaxImages bounds the images a single request may carry. Providers
// reject larger requests with opaque 400s.
const MaxImages = 20

// imageTypes are the media types every provider accepts inline.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// compiled schemas keyed by Schema.Name.
var schemaCache sync.Map

// decodeStructured extracts the JSON document from a model reply and
// checks it against schema. Vision models often wrap JSON in a markdown
// fence even in JSON mode; the fence is removed. Without a schema the
// text is passed through as is.
func decodeStructured(schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		return json.RawMessage(text), nil
	}
	raw := json.RawMessage(stripFence(text))

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return raw, nil
}

// checkTruncated reports a reply cut off by the token limit. Truncated
// JSON never validates, so it is reported as such instead.
func checkTruncated(stop, text string) error {
	if stop == "max_tokens" {
		return &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
	}
	return nil
}

// stripFence removes a surrounding ```json ... ``` block.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // language tag
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	url := "schema://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

// validateRequest rejects requests no provider can express.
func validateRequest(req Request) error {
	if len(req.Messages) == 0 {
		return &ErrUnsupportedInput{Reason: "no messages"}
	}
	total := 0
	for i, m := range req.Messages {
		if len(m.Images) > 0 && m.Role != RoleUser {
			return &ErrUnsupportedInput{Reason: fmt.Sprintf("message %d: images are only allowed in user messages", i)}
		}
		for j, img := range m.Images {
			if len(img.Data) == 0 {
				return &ErrUnsupportedInput{Reason: fmt.Sprintf("message %d: image %d is empty", i, j)}
			}
			if !imageTypes[img.MediaType] {
				return &ErrUnsupportedInput{Reason: fmt.Sprintf("message %d: image %d has unsupported type %q", i, j, img.MediaType)}
			}
		}
		total += len(m.Images)
	}
	if total > MaxImages {
		return &ErrUnsupportedInput{Reason: fmt.Sprintf("%d images exceed the limit of %d", total, MaxImages)}
	}
	return nil
}
