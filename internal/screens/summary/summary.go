package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/store"
	"github.com/edusign/edusign/internal/ui/layout"
	"github.com/edusign/edusign/internal/ui/theme"
)

// Result is what the summary screen shows: the graded session and,
// when loaded from the journal, its attempts.
type Result struct {
	Learner  string
	Set      string
	When     time.Time
	Summary  quiz.Summary
	Attempts []store.AttemptEvent
}

// SummaryScreen displays a session summary.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	sum := r.Summary
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	title := "Quiz complete!"
	if r.Learner != "" {
		title = fmt.Sprintf("Well done, %s!", r.Learner)
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), title))
	b.WriteString("\n\n")

	if !r.When.IsZero() || r.Set != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			strings.TrimSpace(r.Set+"  "+formatWhen(r.When))))
		b.WriteString("\n\n")
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true),
		fmt.Sprintf("Your score: %d / %d", sum.Score, sum.Total)))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(tierColor(sum.Tier)), sum.Message))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Accuracy: %.0f%%        Time: %s", sum.Ratio*100, formatDuration(sum.Duration))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), statsLine))
	b.WriteString("\n")

	if len(r.Attempts) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Attempts")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, a := range r.Attempts {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, attemptLine(a)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func attemptLine(a store.AttemptEvent) string {
	prefix := fmt.Sprintf("Q%d  %-8s", a.QuestionIndex+1, a.Prompt)
	switch a.Outcome {
	case quiz.OutcomeCorrect:
		return theme.Correct.Render(fmt.Sprintf("%s ✓ %s (%.0f%%)", prefix, a.PredictedSign, a.Confidence*100))
	case quiz.OutcomeIncorrect:
		return theme.Incorrect.Render(fmt.Sprintf("%s ✗ saw %q (%.0f%%)", prefix, a.PredictedSign, a.Confidence*100))
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%s · %s", prefix, a.Outcome))
}

// tierColor returns the theme color for a score tier.
func tierColor(t quiz.Tier) color.Color {
	switch t {
	case quiz.TierExcellent:
		return theme.Success
	case quiz.TierGood:
		return theme.Secondary
	default:
		return theme.Accent
	}
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 02, 2006 15:04")
}
