// Package app wires the screens into the Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/screens/home"
	"github.com/edusign/edusign/internal/screens/welcome"
	"github.com/edusign/edusign/internal/ui/layout"
)

// Options configure the program.
type Options struct {
	Home home.Deps

	// Learner skips name entry when set.
	Learner string

	// QuestionSet, when set, jumps straight into a quiz on that set once
	// the learner is known.
	QuestionSet string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel starts on the welcome screen, which hands over to home.
func newAppModel(opts Options) AppModel {
	next := func(learner string) screen.Screen {
		h := home.New(learner, opts.Home)
		if opts.QuestionSet != "" && h.Select(opts.QuestionSet) {
			if s, ok := h.QuizScreen(); ok {
				return &launcher{home: h, quiz: s}
			}
		}
		return h
	}
	return AppModel{
		router: router.New(welcome.New(opts.Learner, next)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	// Focus loss cancels a capture in progress.
	v.ReportFocus = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var h layout.Header
	if active != nil {
		h.Title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			h.Status = sp.Status()
		}
		if lp, ok := active.(screen.LiveProvider); ok {
			h.Live = lp.Live()
		}
	}

	header := layout.RenderHeader(h, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and closes every screen on exit, so
// a running quiz releases its camera.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	final, err := p.Run()
	if m, ok := final.(AppModel); ok {
		m.router.CloseAll()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// launcher sits in place of home for one frame and then pushes the quiz
// on top of it.
type launcher struct {
	home *home.HomeScreen
	quiz screen.Screen
}

func (l *launcher) Init() tea.Cmd {
	quiz := l.quiz
	home := l.home
	return tea.Sequence(
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} },
		func() tea.Msg { return router.PushScreenMsg{Screen: quiz} },
	)
}

func (l *launcher) Update(tea.Msg) (screen.Screen, tea.Cmd) { return l, nil }
func (l *launcher) View(int, int) string                    { return "" }
func (l *launcher) Title() string                           { return "" }
