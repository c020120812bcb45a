package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screens/summary"
	"github.com/edusign/edusign/internal/store"
)

func seededRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	repo := s.EventRepo()
	for _, e := range []store.SessionEventData{
		{SessionID: "a", Action: store.SessionStart, Learner: "Sam", QuestionSet: "numbers", Total: 5},
		{SessionID: "a", Action: store.SessionEnd, Learner: "Sam", QuestionSet: "numbers", Total: 5, Score: 3, Tier: "good", DurationSecs: 70},
		{SessionID: "b", Action: store.SessionEnd, Learner: "Alex", QuestionSet: "greetings", Total: 2, Score: 2, Tier: "excellent", DurationSecs: 30},
	} {
		require.NoError(t, repo.AppendSessionEvent(ctx, e))
	}
	require.NoError(t, repo.AppendAttemptEvent(ctx, store.AttemptEventData{
		SessionID: "a", QuestionIndex: 0, Prompt: "1", ExpectedSign: "one", Outcome: "correct", PredictedSign: "one", Confidence: 0.8,
	}))
	return repo
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
	require.Empty(t, s.errMsg)
}

func TestHistory_ListsFinishedSessions(t *testing.T) {
	s := New(seededRepo(t))
	assert.Contains(t, s.View(100, 30), "Loading history...")

	load(t, s)
	require.Len(t, s.sessions, 2)

	view := s.View(100, 30)
	assert.Contains(t, view, "Alex")
	assert.Contains(t, view, "3/5")
	assert.Contains(t, view, "Excellent")
	assert.True(t, strings.Index(view, "Alex") < strings.Index(view, "Sam"), "newest first")
}

func TestHistory_Empty(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer s.Close()

	h := New(s.EventRepo())
	load(t, h)
	assert.Contains(t, h.View(100, 30), "No quizzes yet")
}

func TestHistory_EnterOpensSummary(t *testing.T) {
	h := New(seededRepo(t))
	load(t, h)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, h.selected)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, h.selected, "selection stops at the last row")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	loaded := cmd().(attemptsLoadedMsg)
	require.NoError(t, loaded.Err)
	assert.Equal(t, "a", loaded.Session.SessionID)
	require.Len(t, loaded.Attempts, 1)

	_, cmd = h.Update(loaded)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	detail, ok := push.Screen.(*summary.SummaryScreen)
	require.True(t, ok)
	assert.Contains(t, detail.View(100, 30), "Your score: 3 / 5")
	assert.Contains(t, detail.View(100, 30), "Attempts")
}

func TestResultFor(t *testing.T) {
	r := resultFor(store.SessionEvent{SessionEventData: store.SessionEventData{
		SessionID: "x", Learner: "Sam", QuestionSet: "numbers", Score: 4, Total: 5, DurationSecs: 90,
	}}, nil)
	assert.Equal(t, "excellent", string(r.Summary.Tier))
	assert.InDelta(t, 0.8, r.Summary.Ratio, 1e-9)
	assert.Equal(t, "Sam", r.Learner)
}

func TestResultFor_KeepsStoredTier(t *testing.T) {
	// 4/5 is excellent by default but was graded good under stricter bounds.
	r := resultFor(store.SessionEvent{SessionEventData: store.SessionEventData{
		SessionID: "y", Score: 4, Total: 5, Tier: "good",
	}}, nil)
	assert.Equal(t, quiz.TierGood, r.Summary.Tier)
	assert.Equal(t, quiz.TierGood.Message(), r.Summary.Message)
}
