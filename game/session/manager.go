package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager keeps the open games in memory, keyed by lower-cased session ID,
// and mirrors them to an optional SessionPersistence. Every session gets
// its own engine built with the manager's engine options.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*service.Session
	persistence SessionPersistence
	engineOpts  []engine.Option
}

func NewManager(opts ...engine.Option) *Manager {
	return NewManagerWithPersistence(nil, opts...)
}

// NewManagerWithPersistence writes sessions through to persistence and
// falls back to it on lookups that miss memory.
func NewManagerWithPersistence(persistence SessionPersistence, opts ...engine.Option) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		engineOpts:  opts,
	}
}

func key(id string) string { return strings.ToLower(id) }

// newSession starts a fresh game on config.
func newSession(id, configID string, config *engine.BoardConfig, opts []engine.Option) (*service.Session, error) {
	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	return &service.Session{
		ID:             id,
		ConfigID:       configID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}, nil
}

// Create opens a new game. An empty id gets a random 4-character one.
// IDs double as file names, so path separators and dots are refused.
func (m *Manager) Create(id, configID string, config *engine.BoardConfig) (*service.Session, error) {
	if strings.ContainsAny(id, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	session, err := newSession(id, configID, config, m.engineOpts)
	if err != nil {
		return nil, err
	}
	m.sessions[key(id)] = session
	m.persist(session)
	return session, nil
}

// Get looks id up in memory, then in persistence. A session found only in
// persistence is cached.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if ok {
		return session, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key(id)]; ok {
		return existing, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

func (m *Manager) GetOrCreate(id, configID string, config *engine.BoardConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, configID, config)
	}
	return session, err
}

// List returns the sessions in memory, oldest first.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	sessions := lo.Values(m.sessions)
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions
}

// Delete removes a session from memory and persistence.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.sessions[key(id)]
	delete(m.sessions, key(id))

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory forgets a session without touching persistence.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.sessionExists(id) {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// Save writes the current snapshot of one session to persistence.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(session)
}

// persist is Save for callers already holding the lock. Failures are
// logged: the game in memory stays playable.
func (m *Manager) persist(session *service.Session) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(session); err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("failed to persist session")
	}
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge from
// memory. Sessions with a move in flight are kept.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	expired := lo.PickBy(m.sessions, func(_ string, s *service.Session) bool {
		return s.LastAccessedAt.Before(cutoff) && !s.Engine.IsMoving()
	})
	for k := range expired {
		delete(m.sessions, k)
	}
	return len(expired)
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns 4 random hex characters not in use yet.
// Callers hold the lock.
func (m *Manager) generateSessionID() string {
	buf := make([]byte, 2)
	for {
		rand.Read(buf)
		if id := hex.EncodeToString(buf); !m.sessionExists(id) {
			return id
		}
	}
}

func (m *Manager) sessionExists(id string) bool {
	_, ok := m.sessions[key(id)]
	return ok
}

// LoadPersistedSessions brings every stored session not yet in memory into
// memory. Sessions that fail to decode are skipped and logged.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range lo.Reject(ids, func(id string, _ int) bool { return m.sessionExists(id) }) {
		session, err := m.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("failed to load persisted session")
			continue
		}
		m.sessions[key(id)] = session
		loaded++
	}

	if loaded > 0 {
		log.Info().Int("count", loaded).Msg("loaded persisted sessions")
	}
	return nil
}

// SaveAllSessions writes every session in memory, reporting how many failed.
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	failed := lo.CountBy(m.List(), func(s *service.Session) bool {
		if err := m.persistence.Save(s); err != nil {
			log.Warn().Err(err).Str("session", s.ID).Msg("failed to save session")
			return true
		}
		return false
	})
	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}
