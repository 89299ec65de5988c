package engine

import (
	"errors"
	"fmt"
	"sync"
)

var ErrMoveInProgress = errors.New("move in progress")

// AudioNotifier receives the name of every emitted event. Implementations
// must not block and must never fail the game.
type AudioNotifier interface {
	Play(name string)
}

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() GameState
	SetState(state GameState) error
	Snapshot() Snapshot
	Reset() bool
	IsGameOver() bool
	IsMoving() bool
	CurrentPlayer() Player

	// Turn operations
	RequestRoll(player Player) bool
	TryRoll(player Player) RollRejection
	Step() (Step, bool)
	Resolve() []Event

	// Configuration
	GetConfig() *BoardConfig
	Transitions() *TransitionTable
}

// GameEngine implements the Engine interface. It is safe for concurrent use;
// roll requests from several input surfaces serialize on one lock.
type GameEngine struct {
	mu       sync.Mutex
	state    GameState
	config   *BoardConfig
	table    *TransitionTable
	messages Messages
	dice     Roller
	audio    AudioNotifier
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithRoller replaces the random die.
func WithRoller(r Roller) Option {
	return func(e *GameEngine) { e.dice = r }
}

// WithAudio sets the audio notifier.
func WithAudio(a AudioNotifier) Option {
	return func(e *GameEngine) { e.audio = a }
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *BoardConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	table, err := NewTransitionTable(config.Ladders, config.Snakes)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		state:    NewGameState(),
		config:   config,
		table:    table,
		messages: config.withDefaults(),
		dice:     NewRandomRoller(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// NewEngineWithDefaults creates a new game engine on the classic board
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultBoardConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default board is invalid: %v", err))
	}
	return e
}

// SetAudio swaps the audio notifier.
func (e *GameEngine) SetAudio(a AudioNotifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audio = a
}

// GetState returns a copy of the current game state
func (e *GameEngine) GetState() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// SetState replaces the game state (used for persistence loading)
func (e *GameEngine) SetState(state GameState) error {
	if !state.CurrentPlayer.Valid() {
		return fmt.Errorf("invalid current player %d", state.CurrentPlayer)
	}
	for i, pos := range state.Positions {
		if pos < 0 {
			return fmt.Errorf("invalid position %d for player %d", pos, i+1)
		}
	}
	if state.IsMoving != (state.Move != nil) {
		return fmt.Errorf("is_moving=%t does not match move in progress", state.IsMoving)
	}
	if err := validateMove(state); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state.Clone()
	return nil
}

// validateMove checks that an in-flight move can be stepped to completion.
func validateMove(state GameState) error {
	move := state.Move
	if move == nil {
		return nil
	}
	if !move.Player.Valid() || move.Player != state.CurrentPlayer {
		return fmt.Errorf("move belongs to player %d, current player is %d", move.Player, state.CurrentPlayer)
	}
	if move.RemainingSteps < 0 {
		return fmt.Errorf("invalid remaining steps %d", move.RemainingSteps)
	}
	switch move.Phase {
	case PhaseWalking, PhaseSettling:
	case PhaseJumping:
		if move.PendingTransition == nil {
			return fmt.Errorf("jumping move has no pending transition")
		}
	default:
		return fmt.Errorf("unknown move phase %q", move.Phase)
	}
	return nil
}

// Snapshot returns the renderer view of the current state
func (e *GameEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Player1Position: e.state.Positions[0],
		Player2Position: e.state.Positions[1],
		CurrentPlayer:   e.state.CurrentPlayer,
		DiceValue:       e.state.DiceValue,
		Message:         e.state.Message,
		GameOver:        e.state.GameOver,
		IsMoving:        e.state.IsMoving,
		Ladders:         e.table.Ladders(),
		Snakes:          e.table.Snakes(),
	}
}

// Reset restores the initial state. It is refused while a move is in flight.
func (e *GameEngine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.IsMoving {
		return false
	}
	e.state = NewGameState()
	return true
}

// IsGameOver returns whether a player has won
func (e *GameEngine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.GameOver
}

// IsMoving returns whether a move is being resolved
func (e *GameEngine) IsMoving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsMoving
}

// CurrentPlayer returns whose turn it is
func (e *GameEngine) CurrentPlayer() Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CurrentPlayer
}

// CheckRoll reports why a roll by player would be ignored, or RollAccepted.
func (e *GameEngine) CheckRoll(player Player) RollRejection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CheckRoll(e.state, player)
}

// RequestRoll rolls the die for player and starts the move. Requests from
// the wrong player, during a move or after the game ended are ignored and
// return false.
func (e *GameEngine) RequestRoll(player Player) bool {
	return e.TryRoll(player) == RollAccepted
}

// TryRoll is RequestRoll reporting why a refused roll was ignored. The
// check and the roll happen under one lock.
func (e *GameEngine) TryRoll(player Player) RollRejection {
	e.mu.Lock()
	if reason := CheckRoll(e.state, player); reason != RollAccepted {
		e.mu.Unlock()
		return reason
	}

	var events []Event
	e.state, events = BeginMove(e.state, clampDie(e.dice.Roll()))
	audio := e.audio
	e.mu.Unlock()

	notify(audio, events)
	return RollAccepted
}

// Step advances the in-flight move by one tick. It returns false when no
// move is in progress.
func (e *GameEngine) Step() (Step, bool) {
	e.mu.Lock()
	if e.state.Move == nil {
		e.mu.Unlock()
		return Step{}, false
	}

	var step Step
	e.state, step = AdvanceOneStep(e.state, e.table, e.messages)
	audio := e.audio
	e.mu.Unlock()

	notify(audio, step.Events)
	return step, true
}

// Resolve drains the in-flight move without pacing.
func (e *GameEngine) Resolve() []Event {
	var events []Event
	for {
		step, ok := e.Step()
		if !ok {
			return events
		}
		events = append(events, step.Events...)
	}
}

// GetConfig returns the board configuration
func (e *GameEngine) GetConfig() *BoardConfig {
	return e.config
}

// Transitions returns the board's transition table
func (e *GameEngine) Transitions() *TransitionTable {
	return e.table
}

func notify(audio AudioNotifier, events []Event) {
	if audio == nil {
		return
	}
	for _, ev := range events {
		audio.Play(string(ev.Kind))
	}
}
