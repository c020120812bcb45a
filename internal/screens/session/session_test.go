package session

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/logging"
	"github.com/edusign/edusign/internal/quiz"
	"github.com/edusign/edusign/internal/recognition"
)

const waitFor = 2 * time.Second

type fixture struct {
	clock  *quiz.FakeClock
	cam    *camera.Manager
	rec    *recognition.Mock
	screen *SessionScreen
}

func newFixture(t *testing.T, responses ...recognition.MockResponse) *fixture {
	t.Helper()
	f := &fixture{
		clock: quiz.NewFakeClock(),
		cam:   camera.NewManager(camera.PatternSource{Width: 64, Height: 48}, logging.Discard()),
		rec:   recognition.NewMock(responses...),
	}
	factory := func(render quiz.Renderer) *quiz.Controller {
		return quiz.New(quiz.DefaultConfig(), quiz.Deps{
			Camera:     f.cam,
			Recognizer: f.rec,
			Clock:      f.clock,
			Renderer:   render,
			Logger:     logging.Discard(),
		})
	}
	f.screen = New(quiz.Numbers(), "Sam", factory)
	f.screen.Init()
	t.Cleanup(f.screen.Close)
	return f
}

// run executes a hook command synchronously and feeds the result back.
func (f *fixture) run(cmd tea.Cmd) hookDoneMsg {
	msg := cmd().(hookDoneMsg)
	f.screen.Update(msg)
	return msg
}

// sync waits for the controller to reach st and feeds the newest view.
func (f *fixture) sync(t *testing.T, st quiz.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.screen.ctrl.Snapshot().State == st
	}, waitFor, time.Millisecond)
	deadline := time.After(waitFor)
	for f.screen.view.State != st {
		select {
		case v := <-f.screen.views:
			f.screen.Update(viewMsg(v))
		case <-deadline:
			t.Fatalf("no %s view rendered", st)
		}
	}
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	f.run(f.screen.call("start", func(c *quiz.Controller) error { return c.Start(quiz.Numbers(), "Sam") }))
	f.sync(t, quiz.StateReady)
}

func (f *fixture) key(code rune, text string) tea.Cmd {
	_, cmd := f.screen.Update(tea.KeyPressMsg{Code: code, Text: text})
	return cmd
}

func TestSessionScreen_StartShowsQuestion(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	view := f.screen.View(100, 30)
	assert.Contains(t, view, "Question 1 of 5")
	assert.Contains(t, view, "Sign this:")
	assert.Equal(t, "Numbers 1-5", f.screen.Title())
	assert.Equal(t, "Sam  ★ 0/5", f.screen.Status())

	var keys []string
	for _, h := range f.screen.KeyHints() {
		keys = append(keys, h.Description)
	}
	assert.Contains(t, keys, "Record sign")
	assert.True(t, f.cam.Active())
}

func TestSessionScreen_RecordAndAnswer(t *testing.T) {
	f := newFixture(t, recognition.Correct("one", 0.91))
	f.start(t)

	msg := f.run(f.key(tea.KeyEnter, ""))
	require.NoError(t, msg.Err)
	f.sync(t, quiz.StateCountdown)
	assert.Contains(t, f.screen.View(100, 30), "Recording in 3...")

	f.clock.Advance(3 * time.Second)
	f.clock.Advance(3 * time.Second)
	f.sync(t, quiz.StateFeedback)

	view := f.screen.View(100, 30)
	assert.Contains(t, view, "Correct! (91% confident)")
	assert.Equal(t, "Sam  ★ 1/5", f.screen.Status())

	// Enter on feedback advances.
	require.NoError(t, f.run(f.key(tea.KeyEnter, "")).Err)
	f.sync(t, quiz.StateReady)
	assert.Contains(t, f.screen.View(100, 30), "Question 2 of 5")
}

func TestSessionScreen_IgnoredKeysDoNotError(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	msg := f.run(f.key('n', "n"))
	assert.ErrorIs(t, msg.Err, quiz.ErrInvalidTransition)
	assert.Empty(t, f.screen.errMsg)

	assert.Nil(t, f.key('r', "r"), "restart only applies to a finished quiz")
}

func TestSessionScreen_BlurCancelsCapture(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.run(f.key(tea.KeyEnter, ""))
	f.sync(t, quiz.StateCountdown)

	_, cmd := f.screen.Update(tea.BlurMsg{})
	require.NotNil(t, cmd)
	require.NoError(t, f.run(cmd).Err)
	f.sync(t, quiz.StateReady)

	assert.Contains(t, f.screen.View(100, 30), "Capture cancelled.")
	assert.Equal(t, 0, f.screen.view.Score)
	assert.Equal(t, 0, f.screen.ctrl.ActiveTimers())
}

func TestSessionScreen_BlurIgnoredWhenReady(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	_, cmd := f.screen.Update(tea.BlurMsg{})
	assert.Nil(t, cmd)
}

func TestSessionScreen_FinishedPushesSummaryOnce(t *testing.T) {
	f := newFixture(t)
	sum := quiz.NewSummary("s1", 4, 5, time.Minute, quiz.DefaultTiers())

	f.screen.Update(viewMsg(quiz.View{State: quiz.StateFinished, QuestionTotal: 5, Score: 4, Summary: sum}))
	assert.True(t, f.screen.summaryShown)
	assert.Contains(t, f.screen.View(100, 30), "Your score: 4 / 5")

	f.screen.Update(viewMsg(quiz.View{State: quiz.StateIdle}))
	assert.False(t, f.screen.summaryShown, "restart re-arms the summary")
}

func TestSessionScreen_HookErrorShown(t *testing.T) {
	f := newFixture(t)
	f.screen.Update(hookDoneMsg{Hook: "start", Err: assert.AnError})
	assert.True(t, strings.Contains(f.screen.View(100, 30), assert.AnError.Error()))
}

func TestSessionScreen_CloseReleasesCamera(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	require.True(t, f.cam.Active())

	f.screen.Close()
	f.screen.Close()

	assert.False(t, f.cam.Active())
	// The final idle view may still be buffered.
	wait := waitForView(f.screen.views)
	msg := wait()
	if msg != nil {
		msg = wait()
	}
	assert.Nil(t, msg, "closed channel ends the wait")

	done := f.run(f.key(tea.KeyEnter, ""))
	assert.ErrorIs(t, done.Err, quiz.ErrClosed)
}
