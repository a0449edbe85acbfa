package study

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

type session struct {
	ctrl     *Controller
	lastUsed time.Time
}

// Manager keeps the live sessions of the HTTP API in memory.
type Manager struct {
	newSession func() *Controller
	ttl        time.Duration
	now        func() time.Time
	log        *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// NewManager creates a registry. newSession builds a fresh Controller with
// its own progress store; ttl <= 0 disables expiry.
func NewManager(log *slog.Logger, ttl time.Duration, newSession func() *Controller) *Manager {
	return &Manager{
		newSession: newSession,
		ttl:        ttl,
		now:        time.Now,
		log:        log.With("service", "sessions"),
		sessions:   make(map[uuid.UUID]*session),
	}
}

// Create starts a session on ref.
func (m *Manager) Create(ctx context.Context, ref domain.PoolRef) (uuid.UUID, State, error) {
	ctrl := m.newSession()
	st, err := ctrl.SelectPool(ctx, ref)
	if err != nil {
		ctrl.Close()
		return uuid.Nil, State{}, err
	}

	id := uuid.New()
	m.mu.Lock()
	m.sessions[id] = &session{ctrl: ctrl, lastUsed: m.now()}
	m.mu.Unlock()

	m.log.InfoContext(ctx, "session created",
		slog.String("session_id", id.String()),
		slog.String("cast_id", ref.CastID),
		slog.String("video_id", ref.VideoID),
	)
	return id, st, nil
}

// Get returns the session and marks it used.
func (m *Manager) Get(id uuid.UUID) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.lastUsed = m.now()
	return s.ctrl, nil
}

// Delete ends a session.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return domain.ErrNotFound
	}
	s.ctrl.Close()
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*session
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.ctrl.Close()
	}
	if len(expired) > 0 {
		m.log.Info("sessions expired", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[uuid.UUID]*session)
	m.mu.Unlock()

	for _, s := range all {
		s.ctrl.Close()
	}
}
