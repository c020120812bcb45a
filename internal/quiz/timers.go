package quiz

import (
	"sync"
	"time"
)

type timerKind int

const (
	timerCountdown timerKind = iota
	timerSample
	timerRecording
)

func (k timerKind) String() string {
	switch k {
	case timerCountdown:
		return "countdown"
	case timerSample:
		return "sample"
	default:
		return "recording"
	}
}

// timerSet owns the one-shot timers of a capture. Every exit from a
// capturing state goes through clear.
type timerSet struct {
	clock Clock

	mu     sync.Mutex
	epoch  uint64
	nextID uint64
	live   map[timerKind]armedTimer
}

type armedTimer struct {
	id      uint64
	stopper Stopper
}

// timerFiring identifies one firing so stale ones can be dropped.
type timerFiring struct {
	kind  timerKind
	epoch uint64
	id    uint64
}

func newTimerSet(clock Clock) *timerSet {
	return &timerSet{clock: clock, live: map[timerKind]armedTimer{}}
}

// arm schedules a one-shot timer of kind, replacing any pending one.
func (s *timerSet) arm(kind timerKind, d time.Duration, fire func(timerFiring)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.live[kind]; ok {
		prev.stopper.Stop()
	}
	s.nextID++
	f := timerFiring{kind: kind, epoch: s.epoch, id: s.nextID}
	s.live[kind] = armedTimer{id: f.id, stopper: s.clock.AfterFunc(d, func() { fire(f) })}
}

// claim consumes a firing. It reports false for firings from a cleared
// epoch or a replaced timer.
func (s *timerSet) claim(f timerFiring) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.epoch != s.epoch {
		return false
	}
	cur, ok := s.live[f.kind]
	if !ok || cur.id != f.id {
		return false
	}
	delete(s.live, f.kind)
	return true
}

// clear stops every timer and invalidates firings already in flight.
// Calling it with nothing armed only bumps the epoch.
func (s *timerSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for kind, t := range s.live {
		t.stopper.Stop()
		delete(s.live, kind)
	}
	s.epoch++
}

// active returns the number of armed timers.
func (s *timerSet) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
