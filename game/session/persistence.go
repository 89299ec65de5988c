package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Only the current game is kept; there is no move history.
type PersistedSessionData struct {
	ID             string           `json:"id"`
	ConfigName     string           `json:"config_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	SoundEnabled   bool             `json:"sound_enabled"`
	GameState      engine.GameState `json:"game_state"`
}

// encodeSession renders a session in the persisted JSON form.
func encodeSession(session *service.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		SoundEnabled:   !session.SoundMuted,
		GameState:      session.Engine.GetState(),
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return out, nil
}

// decodeSession rebuilds a session from its persisted JSON form. A game
// saved halfway through a move has that move applied at once.
func decodeSession(raw []byte, configs service.ConfigManager, opts []engine.Option) (*service.Session, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	config, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	session, err := newSession(data.ID, data.ConfigName, config, opts)
	if err != nil {
		return nil, err
	}

	if err := session.Engine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}
	if session.Engine.IsMoving() {
		session.Engine.Resolve()
		log.Info().Str("session", data.ID).Msg("applied move interrupted by shutdown")
	}

	session.CreatedAt = data.CreatedAt
	session.LastAccessedAt = data.LastAccessedAt
	session.SoundMuted = !data.SoundEnabled
	return session, nil
}
