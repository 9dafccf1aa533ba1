package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Store keeps live sessions in a bounded LRU. A session leaving the cache for any
// reason (capacity, idle sweep, explicit removal) is closed.
type Store struct {
	mu          sync.Mutex
	cache       *lru.Cache[string, *Session]
	factory     *Factory
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store holding at most maxActive sessions.
func NewStore(factory *Factory, maxActive int, idleTimeout time.Duration, logger *zap.Logger, opts ...Option) (*Store, error) {
	if maxActive <= 0 {
		return nil, fmt.Errorf("session store size must be positive, got %d", maxActive)
	}
	s := &Store{
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      logger.Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.NewWithEvict[string, *Session](maxActive, func(id string, sess *Session) {
		sess.Close()
		s.logger.Debug("Session closed", zap.String("session_id", id))
	})
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Resolve returns the live session for id, or a new one when id is empty, malformed,
// unknown or expired. created reports whether a new session was opened.
func (s *Store) Resolve(id string) (sess *Session, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, parseErr := uuid.Parse(id); parseErr == nil {
		if existing, ok := s.cache.Get(id); ok {
			if !existing.Idle(now, s.idleTimeout) {
				existing.Touch(now)
				return existing, false, nil
			}
			s.cache.Remove(id)
		}
	}

	newID := uuid.NewString()
	sess, err = s.factory.New(newID, now)
	if err != nil {
		return nil, false, err
	}
	if evicted := s.cache.Add(newID, sess); evicted {
		s.logger.Info("Session store full, least recently used session evicted")
	}
	s.logger.Debug("Session opened", zap.String("session_id", newID))
	return sess, true, nil
}

// Get returns a live session without creating one.
func (s *Store) Get(id string) (*Session, bool) {
	return s.cache.Get(id)
}

// Remove closes and drops a session. It reports whether the session existed.
func (s *Store) Remove(id string) bool {
	return s.cache.Remove(id)
}

// SweepIdle closes every session idle for longer than the idle timeout. Sessions
// with an open badge stream are kept.
func (s *Store) SweepIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, id := range s.cache.Keys() {
		sess, ok := s.cache.Peek(id)
		if !ok {
			continue
		}
		if sess.Idle(now, s.idleTimeout) {
			s.cache.Remove(id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Close tears down every session.
func (s *Store) Close() {
	s.cache.Purge()
}
