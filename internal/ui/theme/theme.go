package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette. High contrast so feedback reads from a distance while
// the learner is signing.
var (
	Primary      = lipgloss.Color("#6366F1") // Indigo
	Secondary    = lipgloss.Color("#14B8A6") // Teal
	Accent       = lipgloss.Color("#F97316") // Orange
	Success      = lipgloss.Color("#22C55E") // Green
	Error        = lipgloss.Color("#F43F5E") // Rose
	Warning      = lipgloss.Color("#EAB308") // Amber
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0F172A") // Deep Navy
	BgCard       = lipgloss.Color("#1E293B") // Dark Slate
	Border       = lipgloss.Color("#334155") // Slate
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
	Recording    = lipgloss.Color("#EF4444") // Red dot
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Prompt is the sign the learner is asked to perform.
	Prompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(ArcadeYellow)

	// Countdown renders the 3-2-1 before recording.
	Countdown = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Feedback classes.
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Processing = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	Notice = lipgloss.NewStyle().
		Foreground(Warning)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// FeedbackStyle returns the style for a feedback class. Unclassed
// feedback ("Processing...") uses the Processing style.
func FeedbackStyle(class string) lipgloss.Style {
	switch class {
	case "correct":
		return Correct
	case "incorrect":
		return Incorrect
	case "retry":
		return Notice
	}
	return Processing
}
