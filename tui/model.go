package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/term"

	"github.com/wricardo/snakes-and-ladders/game/audio"
	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/pacing"
)

// Model is the bubbletea model of a local two-player game. It is both the
// renderer and the input surface: keys become roll requests and tea.Tick
// drives the engine one tick at a time.
type Model struct {
	engine  *engine.GameEngine
	audio   *audio.Manager
	pacing  pacing.Durations
	keys    KeyMap
	soundOn bool

	// moving is true while a tick chain is scheduled
	moving bool
	notice string
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithPacing sets the delays between ticks.
func WithPacing(d pacing.Durations) Option {
	return func(m *Model) { m.pacing = d }
}

// WithAudio lets the sound key toggle a. The engine should already notify a.
func WithAudio(a *audio.Manager) Option {
	return func(m *Model) { m.audio = a }
}

// WithKeys replaces the default bindings.
func WithKeys(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New creates a model driving eng.
func New(eng *engine.GameEngine, opts ...Option) Model {
	m := Model{
		engine:  eng,
		pacing:  pacing.Normal(),
		keys:    DefaultKeyMap(),
		soundOn: true,
	}
	m.width, m.height, _ = term.GetSize(int(os.Stdout.Fd()))

	for _, opt := range opts {
		opt(&m)
	}
	if m.audio != nil {
		m.soundOn = m.audio.Enabled()
	}
	return m
}

// stepMsg asks the model to advance the move by one tick.
type stepMsg time.Time

func (m Model) tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return stepMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	// Resume a move that was in flight when the model was built
	if m.engine.IsMoving() {
		return m.tick(m.pacing.Step)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.RollOne):
			return m.roll(engine.PlayerOne)
		case key.Matches(msg, m.keys.RollTwo):
			return m.roll(engine.PlayerTwo)
		case key.Matches(msg, m.keys.Reset):
			if m.engine.Reset() {
				m.notice = "New game"
				log.Info().Msg("game reset")
			} else {
				m.notice = "Wait for the move to finish"
			}
		case key.Matches(msg, m.keys.Sound):
			m.toggleSound()
		}

	case stepMsg:
		step, ok := m.engine.Step()
		if !ok || step.Done() {
			m.moving = false
			if ok {
				state := m.engine.GetState()
				log.Debug().Ints("positions", state.Positions[:]).Bool("game_over", state.GameOver).Msg("move settled")
			}
			return m, nil
		}
		return m, m.tick(m.pacing.For(step.Pause))
	}

	return m, nil
}

func (m Model) roll(p engine.Player) (tea.Model, tea.Cmd) {
	if !m.engine.RequestRoll(p) {
		m.notice = rejectionText(m.engine.CheckRoll(p), p)
		return m, nil
	}

	m.notice = ""
	m.moving = true
	log.Debug().Int("player", int(p)).Int("dice", m.engine.GetState().DiceValue).Msg("roll")

	// The die is shown for one step before the token starts walking
	return m, m.tick(m.pacing.Step)
}

func (m *Model) toggleSound() {
	if m.audio == nil {
		m.notice = "No sound device"
		return
	}
	m.soundOn = !m.soundOn
	m.audio.SetEnabled(m.soundOn)
}

func rejectionText(reason engine.RollRejection, p engine.Player) string {
	switch reason {
	case engine.RejectNotYourTurn:
		return fmt.Sprintf("Not player %d's turn", p)
	case engine.RejectMoveInFlight:
		return "Wait for the move to finish"
	case engine.RejectGameOver:
		return "Game over, press r for a new game"
	}
	return ""
}

func (m Model) soundStatus() string {
	switch {
	case m.audio == nil:
		return "Sound: none"
	case len(m.audio.Failures()) > 0:
		names := lo.Map(m.audio.Failures(), func(f audio.LoadFailure, _ int) string { return f.Name })
		return "Sound: unavailable (" + strings.Join(names, ", ") + " failed to load)"
	case m.soundOn:
		return "Sound: on"
	}
	return "Sound: off"
}

func (m Model) help() string {
	parts := lo.Map(m.keys.bindings(), func(b key.Binding, _ int) string {
		return b.Help().Key + " " + b.Help().Desc
	})
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m Model) View() string {
	snap := m.engine.Snapshot()

	status := fmt.Sprintf("Player %d's turn", snap.CurrentPlayer)
	if snap.DiceValue > 0 {
		status += fmt.Sprintf(" | Dice: %d", snap.DiceValue)
	}
	status += fmt.Sprintf(" | P1: %d  P2: %d", snap.Player1Position, snap.Player2Position)

	message := snap.Message
	if message == "" {
		message = " "
	}

	parts := []string{
		titleStyle.Render("Snakes and Ladders"),
		status,
		renderBoard(snap),
	}
	if start := renderStart(snap); start != "" {
		parts = append(parts, start)
	}
	parts = append(parts, messageStyle.Render(message))
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, m.soundStatus(), m.help())

	view := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width <= 0 || m.height <= 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}
