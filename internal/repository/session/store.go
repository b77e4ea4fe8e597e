// Package session keeps dialogue sessions in process memory.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain/language"
	domsession "github.com/kailas-cloud/helpdesk/internal/domain/session"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
)

// Store is a mutex-guarded session map with idle-timeout eviction.
// Each method is atomic; a dialogue turn spanning several calls is not serialized,
// so concurrent turns on one session resolve last-write-wins.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]domsession.Session
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// New creates a store that evicts sessions silent for longer than idleTimeout.
func New(idleTimeout time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions:    make(map[string]domsession.Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      logger,
	}
}

// WithClock replaces the time source (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Begin registers a message for id. An unseen id gets a new greeting-stage session
// (created=true). A known id has LastMessageAt refreshed and QuestionCount incremented.
func (s *Store) Begin(id string, lang language.Language) (sess domsession.Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		sess = domsession.New(id, lang, now)
		s.sessions[id] = sess
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		return sess, true
	}

	sess.LastMessageAt = now
	sess.QuestionCount++
	s.sessions[id] = sess
	return sess, false
}

// Get returns a copy of the session.
func (s *Store) Get(id string) (domsession.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SetStage moves a session to stage. Returns false if the session no longer exists.
func (s *Store) SetStage(id string, stage domsession.Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Stage = stage
	s.sessions[id] = sess
	return true
}

// Delete removes a session. Returns false if it did not exist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return true
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts every session idle for longer than the timeout, regardless of stage.
// Returns the number of evicted sessions.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.IdleSince(now, s.idleTimeout) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.SessionsEvictedTotal.Add(float64(evicted))
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	return evicted
}

// Run sweeps on every interval tick until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("Evicted idle sessions", zap.Int("evicted", n), zap.Int("active", s.Len()))
			}
		}
	}
}
