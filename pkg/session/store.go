package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/dataset"
)

// Factory builds an empty dashboard for a new session.
type Factory func() (*dashboard.Dashboard, error)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle lifetime of a session.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option { return func(s *Store) { s.max = n } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Store is an in-memory session registry. It is safe for concurrent use.
type Store struct {
	factory Factory
	ttl     time.Duration
	max     int
	logger  *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a store that builds dashboards with factory.
func NewStore(factory Factory, opts ...Option) *Store {
	s := &Store{
		factory:  factory,
		ttl:      DefaultTTL,
		max:      DefaultMaxSessions,
		logger:   log.Default(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the idle lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create builds a dashboard, loads src into it and registers the session.
func (s *Store) Create(ctx context.Context, src dataset.Source) (*Session, error) {
	d, err := s.factory()
	if err != nil {
		return nil, fmt.Errorf("create dashboard: %w", err)
	}
	if err := d.Load(ctx, src); err != nil {
		d.Close()
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		dash:      d,
	}
	sess.touch(now.Add(s.ttl))

	s.mu.Lock()
	if s.max > 0 && len(s.sessions) >= s.max {
		s.evictLocked()
	}
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug("created session", "id", sess.ID, "records", d.Dataset().Len(), "sessions", n)
	return sess, nil
}

// Get returns the session and extends its lifetime.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && !s.now().Before(sess.ExpiresAt()) {
		delete(s.sessions, id)
		s.mu.Unlock()
		sess.close()
		return nil, ErrExpired
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now().Add(s.ttl))
	return sess, nil
}

// Delete closes and removes the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	sess.close()
	s.logger.Debug("deleted session", "id", id)
	return nil
}

// Len returns the number of registered sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *Store) Cleanup() int {
	now := s.now()
	var expired []*Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt()) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		s.logger.Debug("expired sessions", "count", len(expired))
	}
	return len(expired)
}

// Run calls Cleanup every interval until ctx is done, then closes every
// session.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-t.C:
			s.Cleanup()
		}
	}
}

// Close closes every session.
func (s *Store) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.close()
	}
}

// evictLocked drops the session closest to expiry.
func (s *Store) evictLocked() {
	var victim *Session
	for _, sess := range s.sessions {
		if victim == nil || sess.ExpiresAt().Before(victim.ExpiresAt()) {
			victim = sess
		}
	}
	if victim == nil {
		return
	}
	delete(s.sessions, victim.ID)
	go victim.close()
	s.logger.Debug("evicted session", "id", victim.ID)
}
