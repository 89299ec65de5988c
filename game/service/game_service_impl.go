package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wricardo/snakes-and-ladders/game/audio"
	"github.com/wricardo/snakes-and-ladders/game/board"
	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/pacing"
)

// EventSound is the websocket event carrying a sound cue for browsers.
const EventSound = "sound"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("config not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions    SessionManager
	configs     ConfigManager
	broadcaster Broadcaster
	pacer       *pacing.Pacer
	sounds      fs.FS
	soundSet    map[string]string
	baseCtx     context.Context
	cellSize    float64
	mu          sync.Mutex
}

// Option configures the game service.
type Option func(*gameServiceImpl)

// WithBroadcaster publishes every intermediate state and sound to b.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *gameServiceImpl) { s.broadcaster = b }
}

// WithPacing sets the delays between ticks of a move.
func WithPacing(d pacing.Durations) Option {
	return func(s *gameServiceImpl) { s.pacer = pacing.New(d) }
}

// WithSounds checks sound sources against fsys when sessions load them.
// A nil fsys trusts the sources as given.
func WithSounds(fsys fs.FS, sounds map[string]string) Option {
	return func(s *gameServiceImpl) {
		s.sounds = fsys
		s.soundSet = sounds
	}
}

// WithContext bounds background move resolution. Cancelling it applies any
// running moves immediately.
func WithContext(ctx context.Context) Option {
	return func(s *gameServiceImpl) { s.baseCtx = ctx }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		pacer:    pacing.New(pacing.Normal()),
		soundSet: audio.DefaultSounds,
		baseCtx:  context.Background(),
		cellSize: board.DefaultCellSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				ids := lo.Map(availableConfigs, func(c *ConfigInfo, _ int) string { return c.ConfigID })
				return nil, fmt.Errorf("%w: '%s' (available: %v): %v", ErrConfigNotFound, configName, ids, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.ensureAudio(sess)

	log.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions ordered by creation time
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })

	return lo.Map(sessions, func(sess *Session, _ int) *SessionInfo { return s.info(sess) }), nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Roll requests a die roll for player. Refused rolls leave the game
// untouched. Accepted rolls are resolved by the pacer, inline when wait is
// set and in the background otherwise.
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string, player int, wait bool) (*RollResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	p := engine.Player(player)
	done, reason := sess.beginRoll(p)
	if reason != engine.RollAccepted {
		state := sess.Engine.GetState()
		log.Debug().Str("session", sess.ID).Int("player", player).Str("reason", string(reason)).Msg("roll ignored")
		return &RollResult{
			Accepted:  false,
			Reason:    reason,
			Player:    player,
			Resolved:  !state.IsMoving,
			GameState: &state,
			Message:   state.Message,
		}, nil
	}

	rolled := sess.Engine.GetState()
	s.broadcast(sess, &rolled)
	log.Info().Str("session", sess.ID).Int("player", player).Int("dice", rolled.DiceValue).Msg("roll")

	result := &RollResult{
		Accepted:  true,
		Player:    player,
		DiceValue: rolled.DiceValue,
		Events: []GameEvent{s.newEvent(engine.Event{
			Kind:   engine.EventRoll,
			Player: p,
			Square: rolled.Position(p),
		}, fmt.Sprintf("Player %d rolled a %d", player, rolled.DiceValue))},
	}

	if !wait {
		go func() {
			defer done()
			s.resolve(s.baseCtx, sess)
		}()
		result.GameState = &rolled
		result.Message = rolled.Message
		return result, nil
	}

	events := s.resolve(ctx, sess)
	done()

	final := sess.Engine.GetState()
	result.Resolved = true
	result.Events = append(result.Events, events...)
	result.GameState = &final
	result.Message = final.Message
	return result, nil
}

// resolve paces the in-flight move of sess to completion, broadcasting
// every tick, then persists the session.
func (s *gameServiceImpl) resolve(ctx context.Context, sess *Session) []GameEvent {
	var events []GameEvent
	err := s.pacer.Run(ctx, sess.Engine, func(step engine.Step) {
		state := sess.Engine.GetState()
		for _, ev := range step.Events {
			msg := ""
			if ev.Kind != engine.EventMove {
				msg = state.Message
			}
			events = append(events, s.newEvent(ev, msg))
		}
		s.broadcast(sess, &state)
	})
	if err != nil {
		log.Debug().Err(err).Str("session", sess.ID).Msg("pacing interrupted, move applied at once")
	}

	state := sess.Engine.GetState()
	logEvent := log.Info().Str("session", sess.ID).Ints("positions", state.Positions[:])
	if state.GameOver {
		logEvent.Int("winner", int(state.Winner)).Msg("game won")
	} else {
		logEvent.Int("next", int(state.CurrentPlayer)).Msg("move settled")
	}

	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after move")
	}
	return events
}

// Reset reinitializes the game of a session, waiting for any running move
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.resetWhenIdle(ctx); err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sess.ID, err)
	}

	state := sess.Engine.GetState()
	s.broadcast(sess, &state)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent(sess.ID, string(EventReset), s.newEvent(engine.Event{Kind: EventReset}, "Game reset"))
	}

	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after reset")
	}

	log.Info().Str("session", sess.ID).Msg("game reset")
	return &state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.GetState()
	return &state, nil
}

// GetBoard returns the renderer view of a session's board
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return BuildBoardView(sess.Engine.Snapshot(), s.cellSize)
}

// BuildBoardView lays out a snapshot on the grid at the given cell size.
func BuildBoardView(snap engine.Snapshot, cellSize float64) (*BoardView, error) {
	view := &BoardView{
		Snapshot: snap,
		CellSize: cellSize,
	}

	for _, row := range board.Rows() {
		view.Rows = append(view.Rows, append([]int(nil), row[:]...))
	}

	for _, from := range sortedKeys(snap.Ladders) {
		c, err := board.Line(from, snap.Ladders[from], cellSize)
		if err != nil {
			return nil, err
		}
		view.Ladders = append(view.Ladders, c)
	}
	for _, from := range sortedKeys(snap.Snakes) {
		c, err := board.Curve(from, snap.Snakes[from], cellSize)
		if err != nil {
			return nil, err
		}
		view.Snakes = append(view.Snakes, c)
	}

	for i, square := range []int{snap.Player1Position, snap.Player2Position} {
		token := Token{Player: i + 1, Square: square}
		// Off-board tokens sit at 0 before the first move and past 100 after a win
		if clamped := min(square, board.Squares); clamped >= 1 {
			token.Center, _ = board.Center(clamped, cellSize)
			token.OnBoard = square <= board.Squares
		}
		view.Tokens = append(view.Tokens, token)
	}

	return view, nil
}

func sortedKeys(m map[int]int) []int {
	keys := lo.Keys(m)
	sort.Ints(keys)
	return keys
}

// GetSound reports the sound state of a session
func (s *gameServiceImpl) GetSound(ctx context.Context, sessionID string) (*SoundStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return soundStatus(sess), nil
}

// SetSound is the per-session sound toggle
func (s *gameServiceImpl) SetSound(ctx context.Context, sessionID string, enabled bool) (*SoundStatus, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.SoundMuted = !enabled
	sess.Audio.SetEnabled(enabled)
	if err := s.sessions.Save(sess.ID); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after sound toggle")
	}
	return soundStatus(sess), nil
}

func soundStatus(sess *Session) *SoundStatus {
	return &SoundStatus{
		Enabled:  sess.Audio.Enabled(),
		Failures: sess.Audio.Failures(),
	}
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// session fetches a session, refreshes its access time and makes sure its
// audio is wired.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sess.ID)
	s.ensureAudio(sess)
	return sess, nil
}

// ensureAudio loads the sound set for a session once and routes playback
// to the session's websocket watchers.
func (s *gameServiceImpl) ensureAudio(sess *Session) {
	sess.audioOnce.Do(func() {
		if sess.Audio == nil {
			sess.Audio = audio.NewManager(s.sounds, nil)
			sess.Audio.SetEnabled(!sess.SoundMuted)
			sess.Engine.SetAudio(sess.Audio)
		}
		if s.broadcaster != nil {
			id := sess.ID
			sess.Audio.SetSink(audio.SinkFunc(func(name, source string) {
				s.broadcaster.BroadcastEvent(id, EventSound, map[string]string{"name": name, "source": source})
			}))
		}
		if err := sess.Audio.LoadAll(s.soundSet); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("sounds unavailable, audio disabled")
		}
	})
}

func (s *gameServiceImpl) broadcast(sess *Session, state *engine.GameState) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sess.ID, state)
	}
}

func (s *gameServiceImpl) newEvent(ev engine.Event, message string) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      ev.Kind,
		Player:    int(ev.Player),
		Square:    ev.Square,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      &state,
		GameConfig:     sess.Config,
	}
}
