package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/types"
)

// DefaultTTL is how long an unused session is kept.
const DefaultTTL = 2 * time.Hour

// ExporterFactory builds the exporter of a new session.
type ExporterFactory func() *export.Exporter

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Defaults        types.UiState
	NewExporter     ExporterFactory
}

// Manager tracks live sessions and expires idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	config   ManagerConfig

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewManager creates a manager and starts its cleanup goroutine when a
// cleanup interval is configured.
func NewManager(config ManagerConfig) *Manager {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.Defaults == (types.UiState{}) {
		config.Defaults = types.DefaultUiState()
	}

	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		config:   config,
	}

	if config.CleanupInterval > 0 {
		m.cleanupTicker = time.NewTicker(config.CleanupInterval)
		m.cleanupStop = make(chan struct{})
		go m.cleanup()
	}
	return m
}

// Create starts a session. ui overrides the configured defaults when non-nil.
func (m *Manager) Create(ui *types.UiState) *Session {
	state := m.config.Defaults
	if ui != nil {
		state = *ui
	}

	var exporter *export.Exporter
	if m.config.NewExporter != nil {
		exporter = m.config.NewExporter()
	}

	s := New(state, exporter)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("[session] created %s (theme=%s lang=%s)", s.ID, state.Theme, state.Language)
	return s
}

// Get returns a live session.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire removes sessions idle since before now-TTL and returns how many
// were removed.
func (m *Manager) Expire(now time.Time) int {
	cutoff := now.Add(-m.config.TTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastAccess().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) cleanup() {
	for {
		select {
		case now := <-m.cleanupTicker.C:
			if n := m.Expire(now); n > 0 {
				log.Printf("[session] expired %d idle sessions", n)
			}
		case <-m.cleanupStop:
			return
		}
	}
}

// Stop ends the cleanup goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		if m.cleanupTicker != nil {
			m.cleanupTicker.Stop()
			close(m.cleanupStop)
		}
	})
}
