package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/ui/components"
	"github.com/edusign/edusign/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	v := s.view
	cw := components.ContentWidth(width)

	var sections []string

	switch v.State {
	case quiz.StateIdle:
		sections = append(sections, renderIdle(v))
	case quiz.StateAwaitingWebcam:
		sections = append(sections, theme.Hint.Render("Starting camera..."))
	case quiz.StateFinished:
		sections = append(sections, renderFinished(v))
	default:
		sections = append(sections,
			renderProgress(v, cw),
			components.Card(renderQuestion(v), cw, v.State == quiz.StateRecording),
			renderStage(v),
			components.ButtonRow(
				components.Button{Key: "Enter", Label: "Record", Enabled: v.SubmitEnabled},
				components.Button{Key: "N", Label: nextLabel(v), Enabled: true, Hidden: !v.NextVisible},
			),
		)
	}

	if v.Feedback != nil {
		sections = append(sections, theme.FeedbackStyle(v.Feedback.Class).Render(v.Feedback.Text))
	}
	if v.Notice != "" {
		sections = append(sections, theme.Notice.Render(v.Notice))
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	}

	for i := range sections {
		sections[i] = components.Centered(sections[i], cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func renderIdle(v quiz.View) string {
	if v.Notice != "" {
		return theme.Hint.Render("Press Esc to go back.")
	}
	return theme.Hint.Render("Preparing your quiz...")
}

func renderProgress(v quiz.View, cw int) string {
	label := fmt.Sprintf("Question %d of %d", v.QuestionIndex+1, v.QuestionTotal)
	return components.NewProgressBar(label, v.Progress, false, cw).View()
}

func renderQuestion(v quiz.View) string {
	return theme.Hint.Render("Sign this:") + "\n\n" + theme.Prompt.Render(v.Prompt)
}

// renderStage shows what the capture is doing right now.
func renderStage(v quiz.View) string {
	switch v.State {
	case quiz.StateReady:
		return theme.Hint.Render("Get ready, then press Enter to record your sign.")
	case quiz.StateCountdown:
		return theme.Countdown.Render(fmt.Sprintf("Recording in %d...", v.Countdown))
	case quiz.StateRecording:
		dot := lipgloss.NewStyle().Foreground(theme.Recording).Bold(true).Render("● REC")
		return fmt.Sprintf("%s  %ds left  %s",
			dot, v.SecondsLeft,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d frames", v.FramesCaptured)))
	case quiz.StateSubmitting:
		return theme.Hint.Render(fmt.Sprintf("Sent %d frames for recognition", v.FramesCaptured))
	}
	return ""
}

func renderFinished(v quiz.View) string {
	if v.Summary == nil {
		return ""
	}
	sum := v.Summary
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Quiz complete!")
	score := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Your score: %d / %d", sum.Score, sum.Total))
	return title + "\n\n" + score + "\n" + theme.Hint.Render(sum.Message) +
		"\n\n" + theme.Hint.Render("Press R to try again or Esc to leave.")
}

func nextLabel(v quiz.View) string {
	if v.LastQuestion {
		return "Finish"
	}
	return "Next"
}

func statusLine(learner string, v quiz.View) string {
	if v.QuestionTotal == 0 {
		return learner
	}
	return fmt.Sprintf("%s  ★ %d/%d", learner, v.Score, v.QuestionTotal)
}
