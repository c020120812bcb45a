package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const maxErrorBody = 4 << 10

// Client calls an HTTP recognition service.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a Client posting to url with the given per-attempt timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP creates a Client using an existing *http.Client.
func NewClientWithHTTP(url string, hc *http.Client) *Client {
	return &Client{url: url, http: hc}
}

func (c *Client) Name() string { return "http" }

func (c *Client) Recognize(ctx context.Context, req Request) (*Verdict, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Code:       resp.StatusCode,
			Body:       string(bytes.TrimSpace(snippet)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnavailableError{Err: fmt.Errorf("read body: %w", err)}
	}

	v, err := decodeVerdict(raw)
	if err != nil {
		return nil, &MalformedError{Body: string(raw), Err: err}
	}
	return v, nil
}

// wireVerdict tells a missing field from its zero value.
type wireVerdict struct {
	IsCorrect     *bool    `json:"isCorrect"`
	PredictedSign *string  `json:"predictedSign"`
	Confidence    *float64 `json:"confidence"`
	Message       string   `json:"message"`
}

// decodeVerdict parses a 2xx body. isCorrect and confidence are required;
// a null body or an error object is not a verdict.
func decodeVerdict(raw []byte) (*Verdict, error) {
	var w *wireVerdict
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, errors.New("empty verdict")
	}
	if w.IsCorrect == nil || w.Confidence == nil {
		return nil, errors.New("verdict needs isCorrect and confidence")
	}
	v := &Verdict{
		IsCorrect:  *w.IsCorrect,
		Confidence: *w.Confidence,
		Message:    w.Message,
	}
	if w.PredictedSign != nil {
		v.PredictedSign = *w.PredictedSign
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
