package engine

import (
	"reflect"
	"sync"
	"testing"
)

type recordingAudio struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingAudio) Play(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *recordingAudio) played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func newTestEngine(t *testing.T, dice ...int) (*GameEngine, *recordingAudio) {
	t.Helper()
	audio := &recordingAudio{}
	e, err := NewEngine(DefaultBoardConfig(), WithRoller(NewFixedRoller(dice...)), WithAudio(audio))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e, audio
}

func TestNewEngine(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	state := e.GetState()
	if !reflect.DeepEqual(state, NewGameState()) {
		t.Errorf("Expected initial state, got %+v", state)
	}
	if e.CurrentPlayer() != PlayerOne {
		t.Errorf("Expected player 1 to start, got %d", e.CurrentPlayer())
	}
	if e.IsGameOver() || e.IsMoving() {
		t.Error("Expected a fresh idle game")
	}
	if e.Transitions().Len() != 19 {
		t.Errorf("Expected classic table, got %d triggers", e.Transitions().Len())
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := DefaultBoardConfig()
	config.Name = ""

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	if e == nil {
		t.Fatal("Expected engine to be non-nil")
	}
	if e.GetConfig().Name != "classic" {
		t.Errorf("Expected classic board, got %q", e.GetConfig().Name)
	}
}

func TestEngine_RequestRollAndStep(t *testing.T) {
	e, audio := newTestEngine(t, 2)

	if !e.RequestRoll(PlayerOne) {
		t.Fatal("Expected roll to be accepted")
	}
	state := e.GetState()
	if !state.IsMoving || state.DiceValue != 2 {
		t.Errorf("Expected moving with dice 2, got moving=%t dice=%d", state.IsMoving, state.DiceValue)
	}
	if state.Position(PlayerOne) != 0 {
		t.Errorf("Expected no progress before the first tick, got %d", state.Position(PlayerOne))
	}

	var ticks int
	for {
		_, ok := e.Step()
		if !ok {
			break
		}
		ticks++
		if ticks == 1 && e.GetState().Position(PlayerOne) != 1 {
			t.Errorf("Expected square 1 after the first tick, got %d", e.GetState().Position(PlayerOne))
		}
	}

	if ticks != 4 {
		t.Errorf("Expected 4 ticks (2 steps, jump, settle), got %d", ticks)
	}
	state = e.GetState()
	if state.Position(PlayerOne) != 38 || state.CurrentPlayer != PlayerTwo {
		t.Errorf("Expected player 1 on 38 and player 2 to move, got %+v", state)
	}

	want := []string{"roll", "move", "move", "ladder"}
	if got := audio.played(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected sounds %v, got %v", want, got)
	}
}

func TestEngine_RejectedRollsAreNoops(t *testing.T) {
	e, audio := newTestEngine(t, 4)

	before := e.GetState()
	if e.RequestRoll(PlayerTwo) {
		t.Error("Expected player 2 to be refused on player 1's turn")
	}
	if e.RequestRoll(Player(3)) {
		t.Error("Expected unknown player to be refused")
	}
	if !reflect.DeepEqual(before, e.GetState()) {
		t.Error("Expected refused rolls to leave state untouched")
	}

	if !e.RequestRoll(PlayerOne) {
		t.Fatal("Expected roll to be accepted")
	}
	moving := e.GetState()
	if e.RequestRoll(PlayerOne) {
		t.Error("Expected roll during a move to be refused")
	}
	if !reflect.DeepEqual(moving, e.GetState()) {
		t.Error("Expected refused roll during a move to leave state untouched")
	}
	if e.CheckRoll(PlayerOne) != RejectMoveInFlight {
		t.Errorf("Expected move_in_progress, got %q", e.CheckRoll(PlayerOne))
	}

	e.Resolve()
	if got := audio.played(); len(got) != 5 || got[0] != "roll" {
		t.Errorf("Expected roll plus 4 moves, got %v", got)
	}
}

func TestEngine_TryRollReasons(t *testing.T) {
	e, _ := newTestEngine(t, 3)

	if got := e.TryRoll(PlayerTwo); got != RejectNotYourTurn {
		t.Errorf("Expected not_your_turn, got %q", got)
	}
	if got := e.TryRoll(Player(0)); got != RejectInvalidSeat {
		t.Errorf("Expected invalid seat, got %q", got)
	}
	if got := e.TryRoll(PlayerOne); got != RollAccepted {
		t.Fatalf("Expected roll to be accepted, got %q", got)
	}
	if got := e.TryRoll(PlayerOne); got != RejectMoveInFlight {
		t.Errorf("Expected move_in_progress, got %q", got)
	}

	e.Resolve()
	if got := e.GetState().Positions[0]; got != 3 {
		t.Errorf("Expected player 1 on 3, got %d", got)
	}
}

func TestEngine_StepWithoutMove(t *testing.T) {
	e, _ := newTestEngine(t, 3)
	if _, ok := e.Step(); ok {
		t.Error("Expected Step to report no move in progress")
	}
	if events := e.Resolve(); len(events) != 0 {
		t.Errorf("Expected no events, got %v", events)
	}
}

func TestEngine_WinAndReset(t *testing.T) {
	e, audio := newTestEngine(t, 3)
	start := NewGameState()
	start.Positions = [Players]int{97, 50}
	if err := e.SetState(start); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}

	e.RequestRoll(PlayerOne)
	events := e.Resolve()
	if last := events[len(events)-1]; last.Kind != EventWin || last.Player != PlayerOne {
		t.Errorf("Expected final event to be player 1 winning, got %+v", last)
	}

	if !e.IsGameOver() {
		t.Fatal("Expected game over")
	}
	before, soundsBefore := e.GetState(), len(audio.played())
	if e.RequestRoll(PlayerOne) || e.RequestRoll(PlayerTwo) {
		t.Error("Expected all rolls to be refused after the win")
	}
	if _, ok := e.Step(); ok {
		t.Error("Expected no move to step after the win")
	}
	if after := e.GetState(); !reflect.DeepEqual(before, after) {
		t.Errorf("Expected refused rolls to leave the state untouched, got %+v, want %+v", after, before)
	}
	if got := len(audio.played()); got != soundsBefore {
		t.Errorf("Expected no sound for refused rolls, got %v", audio.played()[soundsBefore:])
	}
	if e.GetState().Message != "Player 1 wins!" {
		t.Errorf("Expected win message, got %q", e.GetState().Message)
	}
	if played := audio.played(); played[len(played)-1] != "win" {
		t.Errorf("Expected win sound last, got %v", played)
	}

	if !e.Reset() {
		t.Fatal("Expected reset to succeed")
	}
	if !reflect.DeepEqual(e.GetState(), NewGameState()) {
		t.Errorf("Expected initial state after reset, got %+v", e.GetState())
	}
}

func TestEngine_ResetRefusedWhileMoving(t *testing.T) {
	e, _ := newTestEngine(t, 5)
	e.RequestRoll(PlayerOne)
	e.Step()

	if e.Reset() {
		t.Error("Expected reset to be refused during a move")
	}

	e.Resolve()
	if !e.Reset() {
		t.Error("Expected reset to succeed once settled")
	}
}

func TestEngine_SetStateValidation(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	bad := NewGameState()
	bad.CurrentPlayer = 0
	if err := e.SetState(bad); err == nil {
		t.Error("Expected error for invalid current player")
	}

	bad = NewGameState()
	bad.Positions[1] = -1
	if err := e.SetState(bad); err == nil {
		t.Error("Expected error for negative position")
	}

	bad = NewGameState()
	bad.IsMoving = true
	if err := e.SetState(bad); err == nil {
		t.Error("Expected error for is_moving without a move")
	}

	ladder := Transition{From: 2, To: 38, Kind: Ladder}
	moves := []struct {
		name string
		move MoveInProgress
	}{
		{"no player", MoveInProgress{Player: 0, RemainingSteps: 2, Phase: PhaseWalking}},
		{"out of range player", MoveInProgress{Player: 7, RemainingSteps: 2, Phase: PhaseWalking}},
		{"other player", MoveInProgress{Player: PlayerTwo, RemainingSteps: 2, Phase: PhaseWalking}},
		{"negative steps", MoveInProgress{Player: PlayerOne, RemainingSteps: -1, Phase: PhaseWalking}},
		{"unknown phase", MoveInProgress{Player: PlayerOne, Phase: "flying"}},
		{"jump without transition", MoveInProgress{Player: PlayerOne, Phase: PhaseJumping}},
	}
	for _, tt := range moves {
		t.Run(tt.name, func(t *testing.T) {
			move := tt.move
			bad := NewGameState()
			bad.IsMoving = true
			bad.Move = &move
			if err := e.SetState(bad); err == nil {
				t.Errorf("Expected error for move %+v", move)
			}
		})
	}

	// Nothing above may have replaced the state
	if got := e.GetState(); !reflect.DeepEqual(got, NewGameState()) {
		t.Errorf("Expected fresh state after rejected loads, got %+v", got)
	}

	good := NewGameState()
	good.IsMoving = true
	good.Move = &MoveInProgress{Player: PlayerOne, Phase: PhaseJumping, PendingTransition: &ladder}
	good.Positions[0] = 2
	if err := e.SetState(good); err != nil {
		t.Fatalf("Expected valid jumping move to load, got %v", err)
	}
	e.Resolve()
	if got := e.GetState(); got.Positions[0] != 38 || got.IsMoving {
		t.Errorf("Expected restored move to finish on 38, got %+v", got)
	}
}

func TestEngine_GetStateIsACopy(t *testing.T) {
	e, _ := newTestEngine(t, 6)
	e.RequestRoll(PlayerOne)

	state := e.GetState()
	state.Move.RemainingSteps = 0
	state.Positions[0] = 99

	if got := e.GetState(); got.Move.RemainingSteps != 6 || got.Positions[0] != 0 {
		t.Errorf("Expected engine state to be unaffected, got %+v", got)
	}
}

func TestEngine_Snapshot(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	e.RequestRoll(PlayerOne)
	e.Resolve()

	snap := e.Snapshot()
	if snap.Player1Position != 38 || snap.Player2Position != 0 {
		t.Errorf("Expected positions 38 and 0, got %d and %d", snap.Player1Position, snap.Player2Position)
	}
	if snap.Ladders[28] != 84 || snap.Snakes[87] != 24 {
		t.Error("Expected snapshot to carry the classic tables")
	}
	if snap.CurrentPlayer != PlayerTwo || snap.DiceValue != 2 {
		t.Errorf("Expected player 2 to move after a 2, got %+v", snap)
	}
}
