package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/screens/summary"
	"github.com/edusign/edusign/internal/store"
	"github.com/edusign/edusign/internal/ui/layout"
	"github.com/edusign/edusign/internal/ui/theme"
)

// pageSize is how many finished sessions are listed.
const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Err      error
}

type attemptsLoadedMsg struct {
	Session  store.SessionEvent
	Attempts []store.AttemptEvent
	Err      error
}

// HistoryScreen lists finished sessions; enter opens one.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionEvent
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.RecentSessions(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case attemptsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		detail := summary.New(resultFor(msg.Session, msg.Attempts))
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.sessions) {
				return s, s.loadAttempts(s.sessions[s.selected])
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAttempts(sess store.SessionEvent) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		attempts, err := repo.SessionAttempts(context.Background(), sess.SessionID)
		return attemptsLoadedMsg{Session: sess, Attempts: attempts, Err: err}
	}
}

// resultFor rebuilds a summary from a stored end event.
func resultFor(sess store.SessionEvent, attempts []store.AttemptEvent) summary.Result {
	sum := quiz.NewSummary(sess.SessionID, sess.Score, sess.Total,
		time.Duration(sess.DurationSecs)*time.Second, quiz.DefaultTiers())
	// The stored tier was graded with the bounds in force when the session ended.
	if sess.Tier != "" {
		sum.Tier = quiz.Tier(sess.Tier)
		sum.Message = sum.Tier.Message()
	}
	return summary.Result{
		Learner:  sess.Learner,
		Set:      sess.QuestionSet,
		When:     sess.Timestamp,
		Summary:  *sum,
		Attempts: attempts,
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-10s %-12s %d/%d  %s",
			prefix,
			sess.Timestamp.Local().Format("Jan 02 15:04"),
			truncate(sess.Learner, 10),
			truncate(sess.QuestionSet, 12),
			sess.Score, sess.Total,
			quiz.Tier(sess.Tier).Label())

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
