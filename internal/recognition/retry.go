package recognition

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryRecognizer is a decorator that retries transient backend failures
// with exponential backoff and jitter.
type RetryRecognizer struct {
	inner  Recognizer
	config RetryConfig
}

// WithRetry wraps a Recognizer with retry logic.
func WithRetry(r Recognizer, cfg RetryConfig) Recognizer {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryRecognizer{inner: r, config: cfg}
}

func (r *RetryRecognizer) Name() string { return r.inner.Name() }

func (r *RetryRecognizer) Recognize(ctx context.Context, req Request) (*Verdict, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		v, err := r.inner.Recognize(ctx, req)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

// shouldRetry reports whether err is transient. A 500 is treated as a
// deterministic failure of the model, not of the transport.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNoFrames) {
		return false
	}

	var malformed *MalformedError
	if errors.As(err, &malformed) {
		return false
	}

	var unavail *UnavailableError
	if errors.As(err, &unavail) {
		return true
	}

	var status *StatusError
	if errors.As(err, &status) {
		switch status.Code {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	return false
}

func (r *RetryRecognizer) backoff(attempt int, err error) time.Duration {
	var status *StatusError
	if errors.As(err, &status) && status.RetryAfter > 0 {
		return min(status.RetryAfter, r.config.MaxWait)
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
