// Package quiz drives a sign language quiz through countdown, recording,
// frame sampling, recognition and feedback for each question.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/recognition"
)

// Deps are the collaborators of a Controller. Camera and Recognizer are
// required; the rest default to the wall clock, no rendering, no journal
// and the default logger.
type Deps struct {
	Camera     *camera.Manager
	Recognizer recognition.Recognizer
	Clock      Clock
	Renderer   Renderer
	Journal    Journal
	Logger     *slog.Logger
}

// Controller owns one learner's quiz. All transitions run on a single
// event loop goroutine; hooks block until their event has been applied.
type Controller struct {
	cfg        Config
	camera     *camera.Manager
	recognizer recognition.Recognizer
	encoder    camera.Encoder
	clock      Clock
	render     Renderer
	journal    Journal
	logger     *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	events  chan envelope
	stopped chan struct{}
	once    sync.Once
	timers  *timerSet

	// Owned by the loop goroutine.
	state        State
	set          QuestionSet
	info         SessionInfo
	index        int
	score        int
	buffer       *CaptureBuffer
	countdown    int
	secondsLeft  int
	cameraGen    uint64
	cancelCamera context.CancelFunc
	submitID     uint64
	cancelSubmit context.CancelFunc
	submitFrames int
	feedback     *Feedback
	notice       string
	summary      *Summary

	mu   sync.RWMutex
	view View
}

type hook int

const (
	hookStart hook = iota
	hookSubmit
	hookNext
	hookRestart
	hookCancel
)

func (h hook) String() string {
	return [...]string{"start", "submit", "next", "restart", "cancel"}[h]
}

type envelope struct {
	ev    any
	reply chan error
}

type hookEvent struct {
	hook    hook
	set     QuestionSet
	learner string
}

type cameraEvent struct {
	gen uint64
	err error
}

type resultEvent struct {
	id      uint64
	verdict *recognition.Verdict
	err     error
}

// New creates a Controller in the idle state and starts its loop.
func New(cfg Config, deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.Journal == nil {
		deps.Journal = nopJournal{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:        cfg,
		camera:     deps.Camera,
		recognizer: deps.Recognizer,
		encoder:    camera.Encoder{Scale: cfg.FrameScale, Quality: cfg.FrameQuality},
		clock:      deps.Clock,
		render:     deps.Renderer,
		journal:    deps.Journal,
		logger:     deps.Logger.With("component", "quiz"),
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan envelope),
		stopped:    make(chan struct{}),
		timers:     newTimerSet(deps.Clock),
	}
	c.view = c.buildView()

	go c.run()
	return c
}

// Start begins a session over set. The camera is acquired asynchronously;
// the first question becomes ready once it is available.
func (c *Controller) Start(set QuestionSet, learner string) error {
	if err := set.Validate(); err != nil {
		return err
	}
	return c.send(hookEvent{hook: hookStart, set: set, learner: strings.TrimSpace(learner)})
}

// Submit starts the countdown for the current question.
func (c *Controller) Submit() error { return c.send(hookEvent{hook: hookSubmit}) }

// Next advances past the feedback to the next question or the summary.
func (c *Controller) Next() error { return c.send(hookEvent{hook: hookNext}) }

// Restart returns a finished session to idle.
func (c *Controller) Restart() error { return c.send(hookEvent{hook: hookRestart}) }

// Cancel abandons any capture or submission in progress without touching
// the score. It is a no-op while a question or its feedback is shown.
func (c *Controller) Cancel() error { return c.send(hookEvent{hook: hookCancel}) }

// Close stops the loop, cancels pending work and releases the camera.
func (c *Controller) Close() {
	c.once.Do(c.cancel)
	<-c.stopped
}

// Snapshot returns the most recently rendered view.
func (c *Controller) Snapshot() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// ActiveTimers returns the number of armed capture timers.
func (c *Controller) ActiveTimers() int { return c.timers.active() }

// send posts ev to the loop and waits until it has been applied.
func (c *Controller) send(ev any) error {
	env := envelope{ev: ev, reply: make(chan error, 1)}
	select {
	case c.events <- env:
	case <-c.stopped:
		return ErrClosed
	}
	select {
	case err := <-env.reply:
		return err
	case <-c.stopped:
		return ErrClosed
	}
}

func (c *Controller) fire(f timerFiring) {
	_ = c.send(f)
}

func (c *Controller) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return
		case env := <-c.events:
			changed, err := c.handle(env.ev)
			if changed {
				c.publish()
			}
			env.reply <- err
		}
	}
}

func (c *Controller) handle(ev any) (bool, error) {
	switch ev := ev.(type) {
	case hookEvent:
		err := c.handleHook(ev)
		return err == nil, err
	case cameraEvent:
		return c.onCamera(ev), nil
	case timerFiring:
		if !c.timers.claim(ev) {
			return false, nil
		}
		return c.onTimer(ev.kind), nil
	case resultEvent:
		return c.onResult(ev), nil
	}
	return false, nil
}

func (c *Controller) handleHook(ev hookEvent) error {
	switch ev.hook {
	case hookStart:
		return c.start(ev.set, ev.learner)
	case hookSubmit:
		return c.submit()
	case hookNext:
		return c.next()
	case hookRestart:
		return c.restart()
	case hookCancel:
		return c.cancelCapture()
	}
	return nil
}

func (c *Controller) invalid(h hook) error {
	return fmt.Errorf("%s in state %s: %w", h, c.state, ErrInvalidTransition)
}

func (c *Controller) start(set QuestionSet, learner string) error {
	if c.state != StateIdle {
		return c.invalid(hookStart)
	}

	c.resetSession()
	c.set = set
	c.info = SessionInfo{
		ID:          uuid.NewString(),
		Learner:     learner,
		QuestionSet: set.Name,
		Total:       set.Len(),
		StartedAt:   c.clock.Now(),
	}

	if set.Len() == 0 {
		c.logger.Info("empty question set, finishing immediately", "session", c.info.ID, "set", set.Name)
		c.journal.SessionStarted(c.journalCtx(), c.info)
		c.finish()
		return nil
	}

	c.state = StateAwaitingWebcam
	c.cameraGen++
	gen := c.cameraGen
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.CameraTimeout)
	c.cancelCamera = cancel

	go func() {
		defer cancel()
		err := c.camera.Acquire(ctx)
		if sendErr := c.send(cameraEvent{gen: gen, err: err}); sendErr != nil && err == nil {
			c.camera.Release()
		}
	}()
	return nil
}

func (c *Controller) onCamera(ev cameraEvent) bool {
	if ev.gen != c.cameraGen || c.state != StateAwaitingWebcam {
		if ev.err == nil && (c.state == StateIdle || c.state == StateFinished) {
			c.logger.Debug("releasing camera from abandoned start")
			c.camera.Release()
		}
		return false
	}
	c.cancelCamera = nil

	if ev.err != nil {
		c.logger.Warn("camera unavailable", "session", c.info.ID, "error", ev.err)
		c.resetSession()
		c.state = StateIdle
		c.notice = textNoCamera
		return true
	}

	c.state = StateReady
	c.logger.Info("session started",
		"session", c.info.ID, "learner", c.info.Learner,
		"set", c.info.QuestionSet, "questions", c.info.Total)
	c.journal.SessionStarted(c.journalCtx(), c.info)
	return true
}

func (c *Controller) submit() error {
	if c.state != StateReady {
		return fmt.Errorf("%w in state %s", ErrSubmitDisabled, c.state)
	}
	c.feedback = nil
	c.notice = ""

	if c.cfg.CountdownFrom <= 0 {
		c.beginRecording()
		return nil
	}
	c.state = StateCountdown
	c.countdown = c.cfg.CountdownFrom
	c.timers.arm(timerCountdown, c.cfg.CountdownTick, c.fire)
	return nil
}

func (c *Controller) onTimer(kind timerKind) bool {
	switch kind {
	case timerCountdown:
		if c.state != StateCountdown {
			return false
		}
		c.countdown--
		if c.countdown <= 0 {
			c.beginRecording()
		} else {
			c.timers.arm(timerCountdown, c.cfg.CountdownTick, c.fire)
		}
		return true

	case timerRecording:
		if c.state != StateRecording {
			return false
		}
		c.secondsLeft--
		if c.secondsLeft <= 0 {
			c.endRecording()
		} else {
			c.timers.arm(timerRecording, c.cfg.RecordingTick, c.fire)
		}
		return true

	case timerSample:
		if c.state != StateRecording {
			return false
		}
		added := c.sample()
		if !c.buffer.Full() {
			c.timers.arm(timerSample, c.cfg.SampleInterval, c.fire)
		}
		return added
	}
	return false
}

func (c *Controller) beginRecording() {
	c.state = StateRecording
	c.countdown = 0
	c.secondsLeft = c.cfg.RecordingSeconds
	c.buffer = NewCaptureBuffer(c.cfg.MaxFrames)
	c.camera.StartWindow()
	c.timers.arm(timerRecording, c.cfg.RecordingTick, c.fire)
	c.timers.arm(timerSample, c.cfg.SampleInterval, c.fire)
}

// sample appends one encoded frame. Ticks where the camera has no picture
// yet are skipped.
func (c *Controller) sample() bool {
	w, h := c.camera.Dimensions()
	if w == 0 || h == 0 {
		return false
	}
	img, err := c.camera.Snapshot()
	if err != nil {
		c.logger.Debug("snapshot failed", "error", err)
		return false
	}
	frame, err := c.encoder.Encode(img)
	if err != nil {
		c.logger.Debug("frame encode failed", "error", err)
		return false
	}
	return c.buffer.Append(frame)
}

func (c *Controller) endRecording() {
	c.timers.clear()
	frames := c.buffer.Freeze()
	c.buffer = nil
	c.secondsLeft = 0
	q := c.current()

	if len(frames) == 0 {
		c.logger.Info("empty capture", "session", c.info.ID, "question", c.index)
		c.state = StateReady
		c.feedback = &Feedback{Text: textEmptyCapture, Class: ClassRetry}
		c.recordAttempt(OutcomeEmpty, nil, 0, ErrEmptyCapture)
		return
	}

	c.state = StateSubmitting
	c.feedback = &Feedback{Text: textProcessing}
	c.submitID++
	c.submitFrames = len(frames)
	id := c.submitID
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.SubmitTimeout)
	c.cancelSubmit = cancel

	req := recognition.Request{Frames: frames, ExpectedSign: q.Answer}
	go func() {
		defer cancel()
		v, err := c.recognizer.Recognize(ctx, req)
		_ = c.send(resultEvent{id: id, verdict: v, err: err})
	}()
}

func (c *Controller) onResult(ev resultEvent) bool {
	if ev.id != c.submitID || c.state != StateSubmitting {
		c.logger.Debug("dropping stale recognition result", "id", ev.id)
		return false
	}
	c.cancelSubmit = nil

	err := ev.err
	if err == nil && ev.verdict == nil {
		err = errors.New("recognizer returned no verdict")
	}
	if err != nil {
		c.logger.Warn("recognition failed", "session", c.info.ID, "question", c.index, "error", err)
		c.state = StateReady
		c.feedback = &Feedback{Text: textFailed, Class: ClassIncorrect}
		c.recordAttempt(OutcomeFailed, nil, c.submitFrames, err)
		return true
	}

	v := ev.verdict
	pct := int(math.Round(v.Confidence * 100))
	if v.IsCorrect {
		c.score++
		c.feedback = &Feedback{Text: fmt.Sprintf("Correct! (%d%% confident)", pct), Class: ClassCorrect}
		c.recordAttempt(OutcomeCorrect, v, c.submitFrames, nil)
	} else {
		c.feedback = &Feedback{
			Text:  fmt.Sprintf(`Incorrect. System detected "%s" (%d%% confident)`, v.PredictedSign, pct),
			Class: ClassIncorrect,
		}
		c.recordAttempt(OutcomeIncorrect, v, c.submitFrames, nil)
	}
	c.state = StateFeedback
	return true
}

func (c *Controller) next() error {
	if c.state != StateFeedback {
		return c.invalid(hookNext)
	}
	c.feedback = nil
	if c.index+1 < c.set.Len() {
		c.index++
		c.state = StateReady
		return nil
	}
	c.finish()
	return nil
}

func (c *Controller) finish() {
	c.timers.clear()
	c.camera.Release()
	c.index = c.set.Len()
	c.state = StateFinished
	c.summary = NewSummary(c.info.ID, c.score, c.set.Len(), c.clock.Now().Sub(c.info.StartedAt), c.cfg.Tiers())

	c.logger.Info("session finished",
		"session", c.info.ID, "score", c.score, "total", c.set.Len(), "tier", c.summary.Tier)
	c.journal.SessionFinished(c.journalCtx(), c.info, *c.summary)
}

func (c *Controller) restart() error {
	if c.state != StateFinished {
		return c.invalid(hookRestart)
	}
	c.resetSession()
	c.state = StateIdle
	return nil
}

func (c *Controller) cancelCapture() error {
	switch c.state {
	case StateIdle, StateFinished:
		return c.invalid(hookCancel)

	case StateReady, StateFeedback:
		return nil

	case StateAwaitingWebcam:
		c.cameraGen++
		if c.cancelCamera != nil {
			c.cancelCamera()
			c.cancelCamera = nil
		}
		// A handle that still arrives is released as stale.
		c.logger.Info("start cancelled", "session", c.info.ID)
		c.resetSession()
		c.state = StateIdle
		c.notice = textCancelled
		return nil
	}

	c.abortCapture()
	c.state = StateReady
	c.feedback = nil
	c.notice = textCancelled
	return nil
}

// abortCapture stops timers and drops the buffer and any in-flight
// submission of the current question.
func (c *Controller) abortCapture() {
	was := c.state
	c.timers.clear()

	frames := 0
	if c.buffer != nil {
		frames = c.buffer.Len()
		c.buffer = nil
	}
	if c.cancelSubmit != nil {
		c.cancelSubmit()
		c.cancelSubmit = nil
		frames = c.submitFrames
	}
	c.submitID++
	c.countdown = 0
	c.secondsLeft = 0

	c.logger.Info("capture cancelled", "session", c.info.ID, "question", c.index, "state", was)
	if was == StateRecording || was == StateSubmitting {
		c.recordAttempt(OutcomeCancelled, nil, frames, nil)
	}
}

func (c *Controller) shutdown() {
	if c.state.capturing() {
		c.abortCapture()
	}
	c.timers.clear()
	c.cameraGen++
	if c.cancelCamera != nil {
		c.cancelCamera()
		c.cancelCamera = nil
	}
	c.camera.Release()
	c.resetSession()
	c.state = StateIdle
	c.publish()
	c.logger.Debug("controller closed")
}

func (c *Controller) resetSession() {
	c.set = QuestionSet{}
	c.info = SessionInfo{}
	c.index = 0
	c.score = 0
	c.buffer = nil
	c.countdown = 0
	c.secondsLeft = 0
	c.submitFrames = 0
	c.feedback = nil
	c.notice = ""
	c.summary = nil
}

func (c *Controller) current() Question {
	if c.index < c.set.Len() {
		return c.set.Questions[c.index]
	}
	return Question{}
}

func (c *Controller) recordAttempt(outcome string, v *recognition.Verdict, frames int, err error) {
	q := c.current()
	a := Attempt{
		SessionID:     c.info.ID,
		QuestionIndex: c.index,
		Prompt:        q.Prompt,
		ExpectedSign:  q.Answer,
		Outcome:       outcome,
		FrameCount:    frames,
	}
	if v != nil {
		a.PredictedSign = v.PredictedSign
		a.Confidence = v.Confidence
	}
	if err != nil {
		a.Error = err.Error()
	}
	c.journal.AttemptRecorded(c.journalCtx(), a)
}

func (c *Controller) journalCtx() context.Context {
	return context.WithoutCancel(c.ctx)
}

func (c *Controller) publish() {
	v := c.buildView()
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
	if c.render != nil {
		c.render(v)
	}
}

func (c *Controller) buildView() View {
	total := c.set.Len()
	v := View{
		State:         c.state,
		SessionID:     c.info.ID,
		Learner:       c.info.Learner,
		QuestionSet:   c.set.Name,
		QuestionTotal: total,
		Countdown:     c.countdown,
		SecondsLeft:   c.secondsLeft,
		SubmitEnabled: c.state == StateReady,
		NextVisible:   c.state == StateFeedback,
		Notice:        c.notice,
		Score:         c.score,
	}

	if c.state != StateIdle && total > 0 {
		if c.index < total {
			v.QuestionIndex = c.index
			v.Prompt = c.set.Questions[c.index].Prompt
			v.Progress = float64(c.index+1) / float64(total)
			v.LastQuestion = c.index == total-1
		} else {
			v.QuestionIndex = total
			v.Progress = 1
		}
	}

	switch {
	case c.buffer != nil:
		v.FramesCaptured = c.buffer.Len()
	case c.state == StateSubmitting:
		v.FramesCaptured = c.submitFrames
	}

	if c.feedback != nil {
		f := *c.feedback
		v.Feedback = &f
	}
	if c.summary != nil {
		s := *c.summary
		v.Summary = &s
	}
	return v
}
