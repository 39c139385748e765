package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/pkg/logger"
)

// SourceFunc builds the editor source for a back-end token.
type SourceFunc func(token string) editor.Source

// Session is one signed-in editor: the back-end credentials and the
// editing state bound to them.
type Session struct {
	ID       string
	Token    string
	User     models.User
	Store    *editor.Store
	Loader   *editor.Loader
	Autoplay *editor.Autoplayer

	mu       sync.Mutex
	lastSeen time.Time

	done      chan struct{}
	closeOnce sync.Once
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Done is closed when the session ends by logout, expiry or shutdown.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.Autoplay.Close()
		s.Store.Close()
		close(s.done)
	})
}

type Options struct {
	TTL        time.Duration
	Transition time.Duration
	Source     SourceFunc
	Now        func() time.Time
}

type Manager struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

var (
	metricsOnce    sync.Once
	activeSessions prometheus.Gauge
	reapedSessions prometheus.Counter
)

func initMetrics() {
	metricsOnce.Do(func() {
		activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of open editor sessions",
		})
		reapedSessions = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "kirin_dashboard",
			Subsystem: "sessions",
			Name:      "reaped_total",
			Help:      "Editor sessions closed after being idle",
		})
	})
}

func NewManager(opts Options) *Manager {
	initMetrics()
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{opts: opts, sessions: make(map[string]*Session)}
}

// Create opens a session for an authenticated user.
func (m *Manager) Create(token string, user models.User) *Session {
	store := editor.NewStore(m.opts.Transition)
	s := &Session{
		ID:       uuid.NewString(),
		Token:    token,
		User:     user,
		Store:    store,
		Loader:   editor.NewLoader(store, m.opts.Source(token)),
		Autoplay: editor.NewAutoplayer(store),
		lastSeen: m.opts.Now(),
		done:     make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	activeSessions.Set(float64(count))
	logger.Info("Editor session opened", map[string]interface{}{"session_id": s.ID, "user_id": user.ID})
	return s
}

// Get returns a live session and marks it as used. Sessions idle for longer
// than the TTL are treated as gone even before the reaper runs.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.opts.Now()
	if m.expired(s, now) {
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Delete closes and forgets a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return false
	}
	activeSessions.Set(float64(count))
	s.close()
	return true
}

// Reap closes every session idle since before now minus the TTL and returns
// how many were removed.
func (m *Manager) Reap(now time.Time) int {
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if m.expired(s, now) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
		logger.Info("Editor session expired", map[string]interface{}{"session_id": s.ID})
	}
	activeSessions.Set(float64(count))
	reapedSessions.Add(float64(len(stale)))
	return len(stale)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	activeSessions.Set(0)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.opts.TTL > 0 && now.Sub(s.LastSeen()) > m.opts.TTL
}
