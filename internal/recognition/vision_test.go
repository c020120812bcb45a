package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/llm"
)

var labels = []string{"one", "two", "three", "four", "five"}

func encodedFrames(t *testing.T, n int) []string {
	t.Helper()
	src := camera.PatternSource{Width: 64, Height: 48}
	h, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("open pattern source: %v", err)
	}
	defer h.Close()

	enc := camera.DefaultEncoder()
	out := make([]string, 0, n)
	for range n {
		img, err := h.Snapshot()
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		frame, err := enc.Encode(img)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		out = append(out, frame)
	}
	return out
}

func TestVision_Correct(t *testing.T) {
	p := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"predictedSign":"ONE","confidence":0.9}`),
	})
	r := NewVisionRecognizer(p, labels)

	v, err := r.Recognize(context.Background(), Request{Frames: encodedFrames(t, 4), ExpectedSign: "one"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsCorrect {
		t.Error("expected case-insensitive match to be correct")
	}
	if v.Confidence != 0.9 {
		t.Errorf("confidence = %v", v.Confidence)
	}
	if p.ImagesSent() != 4 {
		t.Errorf("images sent = %d, want 4", p.ImagesSent())
	}

	call := p.Calls[0]
	if call.Schema == nil || !strings.HasPrefix(call.Schema.Name, "sign-verdict-") {
		t.Fatalf("expected sign verdict schema, got %+v", call.Schema)
	}
	if !strings.Contains(call.Messages[0].Content, "one, two, three") {
		t.Errorf("prompt missing candidate labels: %q", call.Messages[0].Content)
	}
	if call.Messages[0].Images[0].MediaType != "image/jpeg" {
		t.Errorf("media type = %q", call.Messages[0].Images[0].MediaType)
	}
}

func TestVision_Incorrect(t *testing.T) {
	p := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"predictedSign":"three","confidence":0.42}`),
	})
	v, err := NewVisionRecognizer(p, labels).Recognize(context.Background(),
		Request{Frames: encodedFrames(t, 2), ExpectedSign: "two"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsCorrect || v.PredictedSign != "three" {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestVision_UnknownZeroesConfidence(t *testing.T) {
	for _, body := range []string{
		`{"predictedSign":"unknown","confidence":0.7}`,
		`{"predictedSign":"","confidence":0.3}`,
	} {
		p := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
		v, err := NewVisionRecognizer(p, labels).Recognize(context.Background(),
			Request{Frames: encodedFrames(t, 1), ExpectedSign: "unknown"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.IsCorrect || v.PredictedSign != UnknownSign || v.Confidence != 0 {
			t.Errorf("body %s: unexpected verdict %+v", body, v)
		}
	}
}

func TestVision_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		resp    llm.MockResponse
		wantErr func(error) bool
	}{
		{
			name: "provider down is unavailable",
			resp: llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}},
			wantErr: func(err error) bool {
				var u *UnavailableError
				return errors.As(err, &u)
			},
		},
		{
			name: "truncated output is malformed",
			resp: llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}},
			wantErr: func(err error) bool {
				var m *MalformedError
				return errors.As(err, &m)
			},
		},
		{
			name: "bad json is malformed",
			resp: llm.MockResponse{Content: json.RawMessage(`nope`)},
			wantErr: func(err error) bool {
				var m *MalformedError
				return errors.As(err, &m)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := llm.NewMockProvider(tt.resp)
			_, err := NewVisionRecognizer(p, labels).Recognize(context.Background(),
				Request{Frames: encodedFrames(t, 1), ExpectedSign: "one"})
			if !tt.wantErr(err) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		})
	}
}

func TestVision_RejectsBadFrames(t *testing.T) {
	p := llm.NewMockProvider()
	r := NewVisionRecognizer(p, labels)

	if _, err := r.Recognize(context.Background(), Request{ExpectedSign: "one"}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
	if _, err := r.Recognize(context.Background(), Request{Frames: []string{"not-a-frame"}, ExpectedSign: "one"}); err == nil {
		t.Error("expected error for non data URL frame")
	}
	if p.CallCount() != 0 {
		t.Errorf("provider called %d times", p.CallCount())
	}
}

func TestSpreadFrames(t *testing.T) {
	frames := []string{"a", "b", "c", "d", "e", "f", "g"}
	tests := []struct {
		n    int
		want []string
	}{
		{10, frames},
		{7, frames},
		{4, []string{"a", "c", "e", "g"}},
		{2, []string{"a", "g"}},
	}
	for _, tt := range tests {
		got := spreadFrames(frames, tt.n)
		if strings.Join(got, "") != strings.Join(tt.want, "") {
			t.Errorf("spreadFrames(n=%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestVision_LongRecordingIsThinned(t *testing.T) {
	p := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"predictedSign":"two","confidence":0.6}`),
	})
	r := NewVisionRecognizer(p, labels)

	if _, err := r.Recognize(context.Background(), Request{Frames: encodedFrames(t, llm.MaxImages+5), ExpectedSign: "two"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ImagesSent() != llm.MaxImages {
		t.Errorf("images sent = %d, want %d", p.ImagesSent(), llm.MaxImages)
	}
}

func TestSchemaName(t *testing.T) {
	if got := schemaName([]string{"one", "two"}); got != "sign-verdict-one-two" {
		t.Errorf("schemaName = %q", got)
	}
	if got := schemaName([]string{"thank you", "ok!"}); got != "sign-verdict-thank_you-ok_" {
		t.Errorf("schemaName = %q", got)
	}
}
