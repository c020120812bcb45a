package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are always newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures a quiz session starting or ending.
type SessionEventData struct {
	SessionID    string
	Action       string // SessionStart or SessionEnd
	Learner      string
	QuestionSet  string
	Total        int
	Score        int
	Tier         string
	DurationSecs int
}

// AttemptEventData captures the outcome of one submission.
type AttemptEventData struct {
	SessionID     string
	QuestionIndex int
	Prompt        string
	ExpectedSign  string
	Outcome       string // correct, incorrect, empty, failed, cancelled
	PredictedSign string
	Confidence    float64
	FrameCount    int
	ErrorMessage  string
}

// RecognitionEventData captures a single call to a recognition backend.
type RecognitionEventData struct {
	Backend       string
	ExpectedSign  string
	PredictedSign string
	Confidence    float64
	IsCorrect     bool
	FrameCount    int
	LatencyMs     int64
	Success       bool
	StatusCode    int
	ErrorMessage  string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AttemptEvent is a stored attempt event.
type AttemptEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// RecognitionEvent is a stored recognition event.
type RecognitionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RecognitionEventData
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// SignAccuracy aggregates attempt outcomes for one expected sign.
// Empty captures, failures and cancellations are not judged attempts.
type SignAccuracy struct {
	Sign          string
	Attempts      int
	Correct       int
	Accuracy      float64
	AvgConfidence float64
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error
	AppendRecognition(ctx context.Context, data RecognitionEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentSessions returns finished sessions, newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// SessionAttempts returns the attempts of one session in order.
	SessionAttempts(ctx context.Context, sessionID string) ([]AttemptEvent, error)

	// SignAccuracy returns per-sign accuracy across all judged attempts.
	SignAccuracy(ctx context.Context) ([]SignAccuracy, error)

	QueryRecognitionEvents(ctx context.Context, opts QueryOpts) ([]RecognitionEvent, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// Reset deletes every event.
	Reset(ctx context.Context) error
}
