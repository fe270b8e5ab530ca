// Package session implements the server-side session handle lifecycle:
// allocation, liveness checks, activity tracking, and idle expiry.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Session is a server-allocated handle with creation and last-activity
// timestamps.
type Session struct {
	Handle       uint32
	CreatedAt    time.Time
	LastActivity time.Time
}

// Registry tracks every live session. All mutating operations are
// serialized under a single mutex, matching the concurrency contract
// that registry mutations must not race with each other.
type Registry struct {
	mu       sync.Mutex
	sessions map[uint32]*Session
	next     uint32
	logger   zerolog.Logger
}

// NewRegistry returns an empty registry. Handle 0 is reserved for
// unauthenticated requests and is never issued.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[uint32]*Session),
		next:     1,
		logger:   logger,
	}
}

// Create allocates the next session handle, skipping 0 and any handle
// still in use after counter wraparound.
func (r *Registry) Create(now time.Time) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.next == 0 || r.sessions[r.next] != nil {
		r.next++
	}
	s := &Session{Handle: r.next, CreatedAt: now, LastActivity: now}
	r.sessions[r.next] = s
	r.next++
	r.logger.Info().Uint32("session", s.Handle).Msg("session registered")
	return s
}

// Has reports whether handle is currently live.
func (r *Registry) Has(handle uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[handle]
	return ok
}

// Touch records activity on handle, returning false if it is not
// live.
func (r *Registry) Touch(handle uint32, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[handle]
	if !ok {
		return false
	}
	s.LastActivity = now
	return true
}

// Remove destroys handle, if present.
func (r *Registry) Remove(handle uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[handle]; ok {
		delete(r.sessions, handle)
		r.logger.Info().Uint32("session", handle).Msg("session removed")
	}
}

// Sweep removes every session whose last activity is older than
// idleTimeout relative to now, returning how many were removed.
func (r *Registry) Sweep(now time.Time, idleTimeout time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for handle, s := range r.sessions {
		if now.Sub(s.LastActivity) > idleTimeout {
			delete(r.sessions, handle)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info().Int("count", removed).Msg("swept idle sessions")
	}
	return removed
}

// Count returns the number of currently live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run drives the periodic sweep until ctx is canceled. It is meant to
// be started once, in its own goroutine, by the owning server.
func (r *Registry) Run(ctx context.Context, sweepInterval, idleTimeout time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now, idleTimeout)
		}
	}
}
