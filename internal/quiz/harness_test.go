package quiz

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/logging"
	"github.com/edusign/edusign/internal/recognition"
)

const waitFor = 2 * time.Second
const tick = 2 * time.Millisecond

type recordingJournal struct {
	mu       sync.Mutex
	started  []SessionInfo
	attempts []Attempt
	finished []Summary
}

func (j *recordingJournal) SessionStarted(_ context.Context, info SessionInfo) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started = append(j.started, info)
}

func (j *recordingJournal) AttemptRecorded(_ context.Context, a Attempt) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, a)
}

func (j *recordingJournal) SessionFinished(_ context.Context, _ SessionInfo, s Summary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finished = append(j.finished, s)
}

func (j *recordingJournal) outcomes() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []string
	for _, a := range j.attempts {
		out = append(out, a.Outcome)
	}
	return out
}

type harness struct {
	t       *testing.T
	clock   *FakeClock
	cam     *camera.Manager
	rec     *recognition.Mock
	journal *recordingJournal
	ctrl    *Controller
	renders atomic.Int32
}

func newHarness(t *testing.T, src camera.Source, cfg Config, opts ...func(*Deps)) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		clock:   NewFakeClock(),
		cam:     camera.NewManager(src, logging.Discard()),
		rec:     recognition.NewMock(),
		journal: &recordingJournal{},
	}
	deps := Deps{
		Camera:     h.cam,
		Recognizer: h.rec,
		Clock:      h.clock,
		Renderer:   func(View) { h.renders.Add(1) },
		Journal:    h.journal,
		Logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.ctrl = New(cfg, deps)
	t.Cleanup(h.ctrl.Close)
	return h
}

func patternSource() camera.Source {
	return camera.PatternSource{Width: 64, Height: 48}
}

func defaultHarness(t *testing.T, responses ...recognition.MockResponse) *harness {
	h := newHarness(t, patternSource(), DefaultConfig())
	for _, r := range responses {
		h.rec.AddResponse(r)
	}
	return h
}

func (h *harness) waitState(want State) View {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		return h.ctrl.Snapshot().State == want
	}, waitFor, tick, "never reached state %s (at %s)", want, h.ctrl.Snapshot().State)
	return h.ctrl.Snapshot()
}

func (h *harness) startReady(set QuestionSet) {
	h.t.Helper()
	require.NoError(h.t, h.ctrl.Start(set, "Sam"))
	h.waitState(StateReady)
}

// record runs the countdown and the full recording window.
func (h *harness) record() {
	h.t.Helper()
	require.NoError(h.t, h.ctrl.Submit())
	h.clock.Advance(3 * time.Second)
	require.Equal(h.t, StateRecording, h.ctrl.Snapshot().State)
	h.clock.Advance(3 * time.Second)
}

// answer records and waits for the verdict.
func (h *harness) answer() View {
	h.t.Helper()
	h.record()
	return h.waitState(StateFeedback)
}
