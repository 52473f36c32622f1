// Package session keeps interactive dashboards alive between HTTP requests.
//
// Each Session owns one dashboard.Dashboard. The linked-selection engine is
// single-threaded, so every access to a session's dashboard goes through
// Session.Do, which holds the session's mutex for the whole call. Different
// sessions run in parallel.
//
// Sessions expire after a period without use. A Store evicts expired
// sessions on access and from Run; when MaxSessions is reached, creating a
// session evicts the one closest to expiry.
//
// # Usage
//
//	store := session.NewStore(newDashboard, session.WithTTL(30*time.Minute))
//	go store.Run(ctx, time.Minute)
//
//	sess, err := store.Create(ctx, src)
//	err = sess.Do(func(d *dashboard.Dashboard) error {
//	    return d.Apply(ev)
//	})
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/brushlink/pkg/dashboard"
	"github.com/matzehuels/brushlink/pkg/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")

	// ErrClosed is returned by Do after the session was deleted.
	ErrClosed = errors.New("session closed")
)

// Default limits.
const (
	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// Session is one interactive dashboard.
type Session struct {
	ID        string
	CreatedAt time.Time

	// expires is the expiry time in Unix nanoseconds.
	expires atomic.Int64

	mu     sync.Mutex
	dash   *dashboard.Dashboard
	closed bool
}

// Do runs fn with exclusive access to the dashboard.
func (s *Session) Do(fn func(d *dashboard.Dashboard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.dash)
}

// ExpiresAt returns the current expiry time.
func (s *Session) ExpiresAt() time.Time {
	return time.Unix(0, s.expires.Load())
}

func (s *Session) touch(until time.Time) {
	s.expires.Store(until.UnixNano())
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.dash.Close()
	}
}

// Info is a JSON summary of a session.
type Info struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Records   int        `json:"records"`
	Fields    []string   `json:"fields"`
	Selected  int        `json:"selected"`
	Origin    string     `json:"origin,omitempty"`
	Revision  uint64     `json:"revision"`
	Views     []ViewInfo `json:"views"`
}

// ViewInfo describes one view of a session.
type ViewInfo struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Config   view.AxisConfig `json:"config"`
	Geometry view.Geometry   `json:"geometry"`
	Brush    string          `json:"brush"`
	Revision uint64          `json:"revision"`
}

// Info summarizes the session.
func (s *Session) Info() (Info, error) {
	var info Info
	err := s.Do(func(d *dashboard.Dashboard) error {
		info = Describe(d)
		return nil
	})
	info.ID = s.ID
	info.CreatedAt = s.CreatedAt
	info.ExpiresAt = s.ExpiresAt()
	return info, err
}

// Describe summarizes a dashboard. The caller must hold exclusive access.
func Describe(d *dashboard.Dashboard) Info {
	ds := d.Dataset()
	info := Info{
		Records:  ds.Len(),
		Selected: d.Selection().Matching(ds),
		Origin:   d.Store().Origin(),
		Revision: d.Store().Revision(),
	}
	if ds != nil {
		info.Fields = ds.Fields
	}
	for _, v := range d.Views() {
		info.Views = append(info.Views, ViewInfo{
			Name:     v.Name(),
			Kind:     v.Kind().String(),
			Config:   v.Config(),
			Geometry: v.Geometry(),
			Brush:    v.BrushState().String(),
			Revision: v.Scene().Revision(),
		})
	}
	return info
}
