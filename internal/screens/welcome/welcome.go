package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/ui/components"
	"github.com/edusign/edusign/internal/ui/layout"
	"github.com/edusign/edusign/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

// maxNameLen caps the learner's display name.
const maxNameLen = 24

const handArt = `    _.-._
   | | | |_
   | | | | |
   | | | | |
 _ |  '-._ |
 \'\       |
  \  '     /
   '.     /`

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// WelcomeScreen plays a short splash and asks the learner for their
// name, then replaces itself with the screen built by next.
type WelcomeScreen struct {
	next         func(learner string) screen.Screen
	learner      string
	input        components.TextInput
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. A non-empty learner skips name entry and
// any key continues once the splash has played.
func New(learner string, next func(learner string) screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		next:    next,
		learner: strings.TrimSpace(learner),
		input:   components.NewTextInput("Your name", maxNameLen),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if w.learner != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}, {Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, {Key: "Ctrl+C", Description: "Quit"}}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(tick(), w.input.Init())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		if w.elapsed < phase2End {
			// First key skips the splash.
			w.elapsed = totalDur
			return w, nil
		}
		if w.learner != "" {
			return w, w.transition(w.learner)
		}
		if msg.String() == "enter" {
			name := w.input.Value()
			if name == "" {
				w.input.Reject("Please enter your name.")
				return w, nil
			}
			return w, w.transition(name)
		}
	}

	if w.learner == "" && w.elapsed >= phase2End {
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) transition(learner string) tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next(learner)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(handArt)

	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for i := range lines {
			switch i {
			case 0, 6:
				lines[i] = s1 + "  " + lines[i]
			case 3:
				lines[i] = s2 + "  " + lines[i]
			default:
				lines[i] = "   " + lines[i]
			}
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Practice signing, one question at a time."))
		sections = append(sections, "")

		if w.learner != "" {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.Text).Render("Welcome back, "+w.learner+"!"),
				"",
				theme.Hint.Render("press any key to continue"))
		} else {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("What's your name?"),
				w.input.View())
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
