package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/snakes-and-ladders/game/audio"
	"github.com/wricardo/snakes-and-ladders/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Roll(ctx context.Context, sessionID string, player int, wait bool) (*RollResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetBoard(ctx context.Context, sessionID string) (*BoardView, error)

	// Sound
	GetSound(ctx context.Context, sessionID string) (*SoundStatus, error)
	SetSound(ctx context.Context, sessionID string, enabled bool) (*SoundStatus, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations. Get and Delete report
// a missing session with ErrSessionNotFound.
type SessionManager interface {
	Create(id, configID string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configID string, config *engine.BoardConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Broadcaster pushes live updates to watchers of a session
type Broadcaster interface {
	BroadcastToSession(sessionID string, state *engine.GameState)
	BroadcastEvent(sessionID, event string, data any)
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.BoardConfig
	Audio          *audio.Manager
	SoundMuted     bool
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu        sync.Mutex
	inflight  chan struct{}
	audioOnce sync.Once
}

// beginRoll asks the engine to roll for player and, when accepted, marks a
// resolution as running until the returned function is called. A refused
// roll returns the reason the engine gave.
func (s *Session) beginRoll(player engine.Player) (func(), engine.RollRejection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reason := s.Engine.TryRoll(player); reason != engine.RollAccepted {
		return nil, reason
	}

	done := make(chan struct{})
	s.inflight = done
	return func() {
		s.mu.Lock()
		s.inflight = nil
		s.mu.Unlock()
		close(done)
	}, engine.RollAccepted
}

// resetWhenIdle waits for any running resolution to settle, then resets.
func (s *Session) resetWhenIdle(ctx context.Context) error {
	for {
		s.mu.Lock()
		ch := s.inflight
		if ch == nil {
			ok := s.Engine.Reset()
			s.mu.Unlock()
			if !ok {
				return engine.ErrMoveInProgress
			}
			return nil
		}
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitIdle blocks until no move resolution is running for the session.
func (s *Session) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	ch := s.inflight
	s.mu.Unlock()

	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
