package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edusign/edusign/internal/llm"
)

// UnknownSign is predicted when no candidate label fits the frames.
const UnknownSign = "unknown"

const visionSystemPrompt = `You are a sign language recognition judge for a learning app.
You receive a short sequence of webcam frames of a learner performing one sign.
Decide which single sign from the candidate list the frames show.
If no hands are visible or no candidate fits, answer "unknown" with confidence 0.
Confidence is your probability in [0,1] that the predicted sign is right.`

// VisionRecognizer asks a vision-capable LLM to recognize the sign.
type VisionRecognizer struct {
	provider  llm.Provider
	labels    []string
	maxTokens int
}

// NewVisionRecognizer creates a recognizer choosing among labels.
func NewVisionRecognizer(p llm.Provider, labels []string) *VisionRecognizer {
	return &VisionRecognizer{provider: p, labels: labels, maxTokens: 128}
}

func (r *VisionRecognizer) Name() string { return "vision:" + r.provider.ModelID() }

func (r *VisionRecognizer) schema() *llm.Schema {
	enum := make([]any, 0, len(r.labels)+1)
	for _, l := range r.labels {
		enum = append(enum, l)
	}
	enum = append(enum, UnknownSign)

	return &llm.Schema{
		Name:        schemaName(r.labels),
		Description: "The sign shown in the frames and the confidence of that judgment",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"predictedSign": map[string]any{"type": "string", "enum": enum},
				"confidence":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required":             []any{"predictedSign", "confidence"},
			"additionalProperties": false,
		},
	}
}

func (r *VisionRecognizer) Recognize(ctx context.Context, req Request) (*Verdict, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	frames := spreadFrames(req.Frames, llm.MaxImages)
	images := make([]llm.Image, 0, len(frames))
	for i, f := range frames {
		img, err := llm.ImageFromDataURL(f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		images = append(images, img)
	}

	prompt := fmt.Sprintf("Candidate signs: %s.\nThe %d frames below are in capture order.",
		strings.Join(r.labels, ", "), len(images))

	resp, err := r.provider.Generate(llm.WithPurpose(ctx, llm.PurposeSignRecognition), llm.Request{
		System: visionSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: prompt,
			Images:  images,
		}},
		Schema:    r.schema(),
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if llm.IsTransient(err) {
			return nil, &UnavailableError{Err: err}
		}
		return nil, &MalformedError{Err: err}
	}

	var out struct {
		PredictedSign string  `json:"predictedSign"`
		Confidence    float64 `json:"confidence"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &MalformedError{Body: string(resp.Content), Err: err}
	}

	v := &Verdict{
		PredictedSign: out.PredictedSign,
		Confidence:    out.Confidence,
		IsCorrect:     strings.EqualFold(out.PredictedSign, req.ExpectedSign),
		Message:       fmt.Sprintf("Judged %d frames with %s", len(images), resp.Model),
	}
	if v.PredictedSign == "" || strings.EqualFold(v.PredictedSign, UnknownSign) {
		v.PredictedSign = UnknownSign
		v.Confidence = 0
		v.IsCorrect = false
	}
	if err := v.Validate(); err != nil {
		return nil, &MalformedError{Body: string(resp.Content), Err: err}
	}
	return v, nil
}

// schemaName derives a schema name unique to the label set. Names are also
// the validation cache key, so two label sets must never share one.
func schemaName(labels []string) string {
	name := "sign-verdict-" + strings.Join(labels, "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
}

// spreadFrames keeps at most n frames evenly spaced across the recording,
// always including the first and last.
func spreadFrames(frames []string, n int) []string {
	if len(frames) <= n || n < 2 {
		return frames
	}
	out := make([]string, n)
	last := len(frames) - 1
	for i := range out {
		out[i] = frames[i*last/(n-1)]
	}
	return out
}
