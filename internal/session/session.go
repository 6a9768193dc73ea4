// Package session keeps one canvas per browser session. A session is created
// when the editor loads and discarded when the browser closes it or it sits
// idle past its TTL; nothing outlives it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartbus/internal/canvas"
	"smartbus/internal/panel"
	"smartbus/internal/viewport"
)

var (
	// ErrNotFound is returned for unknown or expired session ids
	ErrNotFound = errors.New("session not found")
	// ErrTooManySessions is returned by Create when the cap is reached
	ErrTooManySessions = errors.New("too many open sessions")
)

// Session bundles a canvas store with the controllers bound to it
type Session struct {
	ID        string
	CreatedAt time.Time

	Store    *canvas.Store
	Viewport *viewport.Controller
	Panel    *panel.Panel

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last request against the session
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ChangeHook observes mutations of any session's store
type ChangeHook func(sessionID string, c canvas.Change)

// Option configures a Manager
type Option func(*Manager)

// WithTTL sets how long an idle session survives. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithMaxSessions caps concurrently open sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.max = n
	}
}

// WithChangeHook registers a hook on every store the manager creates
func WithChangeHook(fn ChangeHook) Option {
	return func(m *Manager) {
		m.hooks = append(m.hooks, fn)
	}
}

// WithStoreOptions passes extra options to every new store
func WithStoreOptions(opts ...canvas.Option) Option {
	return func(m *Manager) {
		m.storeOpts = append(m.storeOpts, opts...)
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the open sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl       time.Duration
	max       int
	hooks     []ChangeHook
	storeOpts []canvas.Option
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager creates an empty manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      30 * time.Minute,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session with a fresh, empty canvas
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.max > 0 && len(m.sessions) >= m.max {
		return nil, fmt.Errorf("%w (limit %d)", ErrTooManySessions, m.max)
	}

	id := uuid.New().String()
	opts := append([]canvas.Option(nil), m.storeOpts...)
	for _, hook := range m.hooks {
		opts = append(opts, canvas.WithChangeHook(func(c canvas.Change) {
			hook(id, c)
		}))
	}
	store := canvas.New(opts...)

	now := m.now()
	sess := &Session{
		ID:        id,
		CreatedAt: now,
		Store:     store,
		Viewport:  viewport.NewController(store),
		Panel:     panel.New(store),
		lastSeen:  now,
	}
	m.sessions[id] = sess

	m.logger.Info("session opened", "session", id, "open", len(m.sessions))
	return sess, nil
}

// Get returns the session with id and marks it as active
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.touch(m.now())
	return sess, nil
}

// Close discards the session with id
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", "session", id, "open", len(m.sessions))
	return nil
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire discards sessions idle for longer than the TTL and returns how many
// were removed
func (m *Manager) Expire() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		m.logger.Info("sessions expired", "count", expired, "open", len(m.sessions))
	}
	return expired
}

// Run expires idle sessions every interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Expire()
		}
	}
}
