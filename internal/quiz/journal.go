package quiz

import (
	"context"
	"log/slog"
	"time"

	"github.com/edusign/edusign/internal/store"
)

// Attempt outcomes.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// SessionInfo identifies a session in journal records.
type SessionInfo struct {
	ID          string    `json:"id"`
	Learner     string    `json:"learner"`
	QuestionSet string    `json:"questionSet"`
	Total       int       `json:"total"`
	StartedAt   time.Time `json:"startedAt"`
}

// Attempt records how one submission ended.
type Attempt struct {
	SessionID     string  `json:"sessionId"`
	QuestionIndex int     `json:"questionIndex"`
	Prompt        string  `json:"prompt"`
	ExpectedSign  string  `json:"expectedSign"`
	Outcome       string  `json:"outcome"`
	PredictedSign string  `json:"predictedSign,omitempty"`
	Confidence    float64 `json:"confidence"`
	FrameCount    int     `json:"frameCount"`
	Error         string  `json:"error,omitempty"`
}

// Journal records session lifecycle events. Implementations handle their
// own failures; the quiz never waits on or reacts to them.
type Journal interface {
	SessionStarted(ctx context.Context, info SessionInfo)
	AttemptRecorded(ctx context.Context, a Attempt)
	SessionFinished(ctx context.Context, info SessionInfo, s Summary)
}

type nopJournal struct{}

func (nopJournal) SessionStarted(context.Context, SessionInfo)           {}
func (nopJournal) AttemptRecorded(context.Context, Attempt)              {}
func (nopJournal) SessionFinished(context.Context, SessionInfo, Summary) {}

// MultiJournal fans every record out to each journal in order.
type MultiJournal []Journal

func (m MultiJournal) SessionStarted(ctx context.Context, info SessionInfo) {
	for _, j := range m {
		j.SessionStarted(ctx, info)
	}
}

func (m MultiJournal) AttemptRecorded(ctx context.Context, a Attempt) {
	for _, j := range m {
		j.AttemptRecorded(ctx, a)
	}
}

func (m MultiJournal) SessionFinished(ctx context.Context, info SessionInfo, s Summary) {
	for _, j := range m {
		j.SessionFinished(ctx, info, s)
	}
}

// StoreJournal writes sessions and attempts to the event store.
type StoreJournal struct {
	repo   store.EventRepo
	logger *slog.Logger
}

// NewStoreJournal creates a journal over repo.
func NewStoreJournal(repo store.EventRepo, logger *slog.Logger) *StoreJournal {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreJournal{repo: repo, logger: logger.With("component", "journal")}
}

func (j *StoreJournal) SessionStarted(ctx context.Context, info SessionInfo) {
	err := j.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:   info.ID,
		Action:      store.SessionStart,
		Learner:     info.Learner,
		QuestionSet: info.QuestionSet,
		Total:       info.Total,
	})
	if err != nil {
		j.logger.Warn("failed to journal session start", "session", info.ID, "error", err)
	}
}

func (j *StoreJournal) AttemptRecorded(ctx context.Context, a Attempt) {
	err := j.repo.AppendAttemptEvent(ctx, store.AttemptEventData{
		SessionID:     a.SessionID,
		QuestionIndex: a.QuestionIndex,
		Prompt:        a.Prompt,
		ExpectedSign:  a.ExpectedSign,
		Outcome:       a.Outcome,
		PredictedSign: a.PredictedSign,
		Confidence:    a.Confidence,
		FrameCount:    a.FrameCount,
		ErrorMessage:  a.Error,
	})
	if err != nil {
		j.logger.Warn("failed to journal attempt", "session", a.SessionID, "error", err)
	}
}

func (j *StoreJournal) SessionFinished(ctx context.Context, info SessionInfo, s Summary) {
	err := j.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    info.ID,
		Action:       store.SessionEnd,
		Learner:      info.Learner,
		QuestionSet:  info.QuestionSet,
		Total:        s.Total,
		Score:        s.Score,
		Tier:         string(s.Tier),
		DurationSecs: int(s.Duration.Seconds()),
	})
	if err != nil {
		j.logger.Warn("failed to journal session end", "session", info.ID, "error", err)
	}
}
