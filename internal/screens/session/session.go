// Package session is the terminal screen that drives one quiz session.
package session

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/router"
	"github.com/edusign/edusign/internal/screen"
	"github.com/edusign/edusign/internal/ui/layout"
)

// Factory builds a controller that reports to render. Each screen owns
// the controller it gets and closes it when it leaves the stack.
type Factory func(render quiz.Renderer) *quiz.Controller

// SessionScreen implements screen.Screen for a running quiz.
type SessionScreen struct {
	set     quiz.QuestionSet
	learner string
	factory Factory

	ctrl  *quiz.Controller
	views chan quiz.View
	view  quiz.View

	errMsg       string
	summaryShown bool
	closed       bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for set. The controller is built and the
// session started when the screen is pushed.
func New(set quiz.QuestionSet, learner string, factory Factory) *SessionScreen {
	return &SessionScreen{
		set:     set,
		learner: learner,
		factory: factory,
		views:   make(chan quiz.View, 1),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	s.ctrl = s.factory(s.render)
	s.view = s.ctrl.Snapshot()
	set, learner := s.set, s.learner
	return tea.Batch(
		s.call("start", func(c *quiz.Controller) error { return c.Start(set, learner) }),
		waitForView(s.views),
	)
}

func (s *SessionScreen) Title() string {
	if s.set.Title != "" {
		return s.set.Title
	}
	return "Quiz"
}

// Status shows the learner and running score in the header.
func (s *SessionScreen) Status() string {
	return statusLine(s.learner, s.view)
}

func (s *SessionScreen) Live() bool {
	return s.view.State == quiz.StateRecording
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	v := s.view
	hints := []layout.KeyHint{}
	switch {
	case v.State == quiz.StateFinished:
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Restart"})
	case v.State == quiz.StateReady && v.SubmitEnabled:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Record sign"})
	case v.State == quiz.StateFeedback:
		label := "Next"
		if v.LastQuestion {
			label = "Finish"
		}
		hints = append(hints, layout.KeyHint{Key: "N", Description: label})
	}
	if cancellable(v.State) {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Cancel"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		return s.handleView(quiz.View(msg))

	case hookDoneMsg:
		s.handleHookDone(msg)
		return s, nil

	case tea.BlurMsg:
		// Losing terminal focus counts as leaving the page.
		if cancellable(s.view.State) {
			return s, s.call("cancel", (*quiz.Controller).Cancel)
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleView(v quiz.View) (screen.Screen, tea.Cmd) {
	s.view = v
	cmds := []tea.Cmd{waitForView(s.views)}

	if v.State != quiz.StateFinished {
		s.summaryShown = false
	} else if v.Summary != nil && !s.summaryShown {
		s.summaryShown = true
		sum := *v.Summary
		learner := s.learner
		cmds = append(cmds, func() tea.Msg {
			return router.PushScreenMsg{Screen: newSummaryScreen(sum, learner)}
		})
	}
	return s, tea.Batch(cmds...)
}

func (s *SessionScreen) handleHookDone(msg hookDoneMsg) {
	switch {
	case msg.Err == nil:
		s.errMsg = ""
	case errors.Is(msg.Err, quiz.ErrInvalidTransition),
		errors.Is(msg.Err, quiz.ErrSubmitDisabled),
		errors.Is(msg.Err, quiz.ErrClosed):
		// Key pressed in a state that ignores it.
	default:
		s.errMsg = msg.Err.Error()
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter", "space":
		if s.view.State == quiz.StateFeedback {
			return s, s.call("next", (*quiz.Controller).Next)
		}
		return s, s.call("submit", (*quiz.Controller).Submit)
	case "n", "N":
		return s, s.call("next", (*quiz.Controller).Next)
	case "r", "R":
		if s.view.State != quiz.StateFinished {
			return s, nil
		}
		set, learner := s.set, s.learner
		return s, s.call("restart", func(c *quiz.Controller) error {
			if err := c.Restart(); err != nil {
				return err
			}
			return c.Start(set, learner)
		})
	case "c", "C":
		return s, s.call("cancel", (*quiz.Controller).Cancel)
	}
	return s, nil
}

// Close shuts the controller down, which releases the camera.
func (s *SessionScreen) Close() {
	if s.closed || s.ctrl == nil {
		return
	}
	s.closed = true
	s.ctrl.Close()
	close(s.views)
}

// call runs hook on the controller off the UI goroutine.
func (s *SessionScreen) call(name string, hook func(*quiz.Controller) error) tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		return hookDoneMsg{Hook: name, Err: hook(ctrl)}
	}
}

// render is the controller's Renderer. It keeps only the newest view so
// the loop never blocks on a slow terminal.
func (s *SessionScreen) render(v quiz.View) {
	for {
		select {
		case s.views <- v:
			return
		default:
		}
		select {
		case <-s.views:
		default:
		}
	}
}

func waitForView(views <-chan quiz.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return nil
		}
		return viewMsg(v)
	}
}

func cancellable(st quiz.State) bool {
	switch st {
	case quiz.StateAwaitingWebcam, quiz.StateCountdown, quiz.StateRecording, quiz.StateSubmitting:
		return true
	}
	return false
}
