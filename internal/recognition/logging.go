package recognition

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/edusign/edusign/internal/store"
)

// LoggingRecognizer journals every recognition call.
type LoggingRecognizer struct {
	inner     Recognizer
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Recognizer with event logging. repo may be nil.
func WithLogging(r Recognizer, repo store.EventRepo, logger *slog.Logger) Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingRecognizer{
		inner:     r,
		eventRepo: repo,
		logger:    logger.With("component", "recognition", "backend", r.Name()),
	}
}

func (l *LoggingRecognizer) Name() string { return l.inner.Name() }

func (l *LoggingRecognizer) Recognize(ctx context.Context, req Request) (*Verdict, error) {
	start := time.Now()
	v, err := l.inner.Recognize(ctx, req)
	latencyMs := time.Since(start).Milliseconds()

	data := store.RecognitionEventData{
		Backend:      l.inner.Name(),
		ExpectedSign: req.ExpectedSign,
		FrameCount:   len(req.Frames),
		LatencyMs:    latencyMs,
		Success:      err == nil,
	}
	if v != nil {
		data.PredictedSign = v.PredictedSign
		data.Confidence = v.Confidence
		data.IsCorrect = v.IsCorrect
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var status *StatusError
		if errors.As(err, &status) {
			data.StatusCode = status.Code
		}
	}

	switch {
	case err == nil:
		l.logger.Info("sign recognized",
			"expected", req.ExpectedSign, "predicted", v.PredictedSign,
			"correct", v.IsCorrect, "confidence", v.Confidence,
			"frames", len(req.Frames), "latency_ms", latencyMs)
	case errors.Is(err, context.Canceled):
		l.logger.Debug("recognition abandoned", "expected", req.ExpectedSign, "latency_ms", latencyMs)
	default:
		l.logger.Warn("recognition failed",
			"expected", req.ExpectedSign, "frames", len(req.Frames),
			"status", data.StatusCode, "latency_ms", latencyMs, "error", err)
	}

	// Journal the call but don't fail the submission if that fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendRecognition(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warn("failed to journal recognition event", "error", logErr)
		}
	}

	return v, err
}
