package engine

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestEngine_FullGameAlternatesTurns(t *testing.T) {
	e, err := NewEngine(DefaultBoardConfig(), WithRoller(NewSeededRoller(7, 11)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	expected := PlayerOne
	for turn := 0; turn < 1000 && !e.IsGameOver(); turn++ {
		if e.CurrentPlayer() != expected {
			t.Fatalf("Turn %d: expected player %d, got %d", turn, expected, e.CurrentPlayer())
		}
		if e.RequestRoll(expected.Other()) {
			t.Fatalf("Turn %d: out-of-turn roll was accepted", turn)
		}
		if !e.RequestRoll(expected) {
			t.Fatalf("Turn %d: roll was refused", turn)
		}

		dice := e.GetState().DiceValue
		if dice < 1 || dice > DieFaces {
			t.Fatalf("Turn %d: dice value %d out of range", turn, dice)
		}

		e.Resolve()
		state := e.GetState()
		if state.IsMoving || state.Move != nil {
			t.Fatalf("Turn %d: move not settled", turn)
		}
		for i, pos := range state.Positions {
			if pos < 100 && e.Transitions().IsTrigger(pos) {
				t.Fatalf("Turn %d: player %d resting on trigger %d", turn, i+1, pos)
			}
		}
		if !state.GameOver {
			expected = expected.Other()
		}
	}

	state := e.GetState()
	if !state.GameOver {
		t.Fatal("Expected the game to finish within 1000 turns")
	}
	if state.Winner != state.CurrentPlayer {
		t.Errorf("Expected winner %d to keep the turn, got %d", state.Winner, state.CurrentPlayer)
	}
	if state.Position(state.Winner) < FinishSquare {
		t.Errorf("Expected winner at or beyond %d, got %d", FinishSquare, state.Position(state.Winner))
	}
	if state.Position(state.Winner.Other()) >= FinishSquare {
		t.Error("Expected only one player past the finish")
	}
}

func TestEngine_ConcurrentRollRequests(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e.RequestRoll(PlayerOne) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Errorf("Expected exactly one accepted roll, got %d", accepted.Load())
	}

	e.Resolve()
	if e.GetState().Position(PlayerOne) != 4 {
		t.Errorf("Expected a single move of 4, got %d", e.GetState().Position(PlayerOne))
	}
}

func TestEngine_ResetIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	e.Reset()
	first := e.GetState()
	e.Reset()
	if first != e.GetState() {
		t.Error("Expected two resets to produce the same state")
	}
}
