// Package recognition submits captured frames to a sign recognition backend
// and returns its verdict.
package recognition

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoFrames is returned, before any I/O, for a request without frames.
var ErrNoFrames = errors.New("no frames provided")

// Request is the body sent to the recognition backend.
type Request struct {
	// Frames are JPEG data URLs in capture order.
	Frames []string `json:"frames"`

	// ExpectedSign is the answer label of the current question.
	ExpectedSign string `json:"expectedSign"`
}

// Verdict is the backend's judgment of a capture.
type Verdict struct {
	IsCorrect     bool    `json:"isCorrect"`
	PredictedSign string  `json:"predictedSign"`
	Confidence    float64 `json:"confidence"`

	// Message is informational only, e.g. how many frames showed a hand.
	Message string `json:"message,omitempty"`
}

// Recognizer judges a capture against the expected sign.
type Recognizer interface {
	Recognize(ctx context.Context, req Request) (*Verdict, error)

	// Name identifies the backend in logs and journal events.
	Name() string
}

// Validate rejects requests that must never reach a backend.
func (r Request) Validate() error {
	if len(r.Frames) == 0 {
		return ErrNoFrames
	}
	if r.ExpectedSign == "" {
		return errors.New("expected sign is required")
	}
	return nil
}

// Validate checks that the verdict is well formed.
func (v *Verdict) Validate() error {
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", v.Confidence)
	}
	return nil
}
