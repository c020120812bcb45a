package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/edusign/edusign/internal/camera"
	"github.com/edusign/edusign/internal/hub"
	"github.com/edusign/edusign/internal/quiz"
)

// Session is a quiz driven remotely: the browser pushes camera frames and
// calls the hooks, subscribers receive every view.
type Session struct {
	ID        string
	Learner   string
	Set       quiz.QuestionSet
	CreatedAt time.Time

	Controller *quiz.Controller
	Source     *camera.PushSource
	Hub        *hub.Hub

	closeOnce sync.Once
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.Controller.Close()
		s.Hub.Close()
	})
}

// registry keeps sessions for an idle TTL. Eviction closes the session.
type registry struct {
	items  *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func newRegistry(ttl time.Duration, logger *slog.Logger) *registry {
	r := &registry{items: cache.New(ttl, ttl/2), ttl: ttl, logger: logger}
	r.items.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			r.logger.Info("session evicted", "remote_session", id)
			s.close()
		}
	})
	return r
}

func (r *registry) add(s *Session) {
	r.items.Set(s.ID, s, cache.DefaultExpiration)
}

// get returns the session and refreshes its TTL.
func (r *registry) get(id string) (*Session, bool) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	r.items.Set(id, s, cache.DefaultExpiration)
	return s, true
}

func (r *registry) remove(id string) bool {
	if _, ok := r.items.Get(id); !ok {
		return false
	}
	r.items.Delete(id)
	return true
}

func (r *registry) count() int { return r.items.ItemCount() }

// closeAll evicts every session.
func (r *registry) closeAll() {
	for id := range r.items.Items() {
		r.items.Delete(id)
	}
}

func newSessionID() string { return uuid.NewString() }
