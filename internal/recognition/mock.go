package recognition

import (
	"context"
	"sync"
)

// MockResponse is a canned result for the Mock recognizer.
type MockResponse struct {
	Verdict *Verdict
	Err     error
}

// Mock is a deterministic Recognizer for tests and offline demos.
// It returns canned responses in FIFO order and records all requests.
// With an empty queue it answers every request as correct.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Block, when set, makes Recognize wait for it to close or for ctx.
	Block chan struct{}
}

// NewMock creates a Mock with the given canned responses.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

// Correct returns a canned correct verdict.
func Correct(sign string, confidence float64) MockResponse {
	return MockResponse{Verdict: &Verdict{IsCorrect: true, PredictedSign: sign, Confidence: confidence}}
}

// Incorrect returns a canned incorrect verdict.
func Incorrect(predicted string, confidence float64) MockResponse {
	return MockResponse{Verdict: &Verdict{IsCorrect: false, PredictedSign: predicted, Confidence: confidence}}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Recognize(ctx context.Context, req Request) (*Verdict, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.responses) == 0 {
		return &Verdict{IsCorrect: true, PredictedSign: req.ExpectedSign, Confidence: 1}, nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	v := *resp.Verdict
	return &v, nil
}

// AddResponse appends a canned response to the queue.
func (m *Mock) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Recognize calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastRequest returns the most recent request, if any.
func (m *Mock) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
