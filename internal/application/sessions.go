package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	ws       *WorkingSet
	lastSeen time.Time
}

// SessionRegistry holds one working set per editing session. Sessions idle
// for longer than the TTL are dropped by Sweep.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionRegistry creates an empty registry. A zero ttl disables expiry.
func NewSessionRegistry(ttl time.Duration, logger *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create opens a new session with an empty working set.
func (r *SessionRegistry) Create() (string, *WorkingSet, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}

	ws := NewWorkingSet()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id.String()] = &session{ws: ws, lastSeen: r.now()}

	return id.String(), ws, nil
}

// Get returns the working set for id and marks the session as active.
func (r *SessionRegistry) Get(id string) (*WorkingSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || r.expired(s) {
		delete(r.sessions, id)
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	s.lastSeen = r.now()
	return s.ws, nil
}

// Close discards a session. Unknown IDs are ignored.
func (r *SessionRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Start sweeps expired sessions every interval until ctx is canceled.
func (r *SessionRegistry) Start(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("expired editing sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}

func (r *SessionRegistry) expired(s *session) bool {
	return r.ttl > 0 && r.now().Sub(s.lastSeen) > r.ttl
}
