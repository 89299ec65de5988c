package service

import (
	"time"

	"github.com/wricardo/snakes-and-ladders/game/audio"
	"github.com/wricardo/snakes-and-ladders/game/board"
	"github.com/wricardo/snakes-and-ladders/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	GameConfig     *engine.BoardConfig `json:"game_config"`
}

// RollResult contains the result of a roll request. A refused roll is not an
// error: Accepted is false and Reason says why.
type RollResult struct {
	Accepted  bool                 `json:"accepted"`
	Reason    engine.RollRejection `json:"reason,omitempty"`
	Player    int                  `json:"player"`
	DiceValue int                  `json:"dice_value,omitempty"`
	Resolved  bool                 `json:"resolved"`
	GameState *engine.GameState    `json:"game_state"`
	Message   string               `json:"message"`
	Events    []GameEvent          `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string           `json:"id"`
	Type      engine.EventKind `json:"type"` // "roll", "move", "ladder", "snake", "win", "reset"
	Player    int              `json:"player,omitempty"`
	Square    int              `json:"square,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// EventReset is reported when a game is reinitialized.
const EventReset engine.EventKind = "reset"

// BoardView is everything a graphical renderer needs for one frame.
type BoardView struct {
	Snapshot engine.Snapshot   `json:"snapshot"`
	Rows     [][]int           `json:"rows"`
	CellSize float64           `json:"cell_size"`
	Ladders  []board.Connector `json:"ladders"`
	Snakes   []board.Connector `json:"snakes"`
	Tokens   []Token           `json:"tokens"`
}

// Token is a player's marker on the board.
type Token struct {
	Player  int         `json:"player"`
	Square  int         `json:"square"`
	Center  board.Point `json:"center"`
	OnBoard bool        `json:"on_board"`
}

// SoundStatus reports whether a session plays sounds, and why not.
type SoundStatus struct {
	Enabled  bool                `json:"enabled"`
	Failures []audio.LoadFailure `json:"failures,omitempty"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Ladders     int    `json:"ladders"`
	Snakes      int    `json:"snakes"`
}
