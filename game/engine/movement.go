package engine

import "fmt"

// Step is the outcome of one scheduler tick.
type Step struct {
	Events []Event `json:"events,omitempty"`
	// Pause is the delay class before the next tick. PauseNone once the
	// move has settled.
	Pause Pause `json:"pause,omitempty"`
}

// Done reports whether the move finished on this tick.
func (s Step) Done() bool {
	return s.Pause == PauseNone
}

// CheckRoll evaluates whether player may roll in state.
func CheckRoll(state GameState, player Player) RollRejection {
	switch {
	case !player.Valid():
		return RejectInvalidSeat
	case state.GameOver:
		return RejectGameOver
	case state.IsMoving:
		return RejectMoveInFlight
	case player != state.CurrentPlayer:
		return RejectNotYourTurn
	}
	return RollAccepted
}

// BeginMove records a die value for the current player and starts the walk.
// The caller is responsible for CheckRoll.
func BeginMove(state GameState, dice int) (GameState, []Event) {
	next := state.Clone()
	player := next.CurrentPlayer

	next.DiceValue = dice
	next.IsMoving = true
	next.Move = &MoveInProgress{
		Player:         player,
		RemainingSteps: dice,
		Phase:          PhaseWalking,
	}

	events := []Event{{Kind: EventRoll, Player: player, Square: next.Position(player)}}
	return next, events
}

// AdvanceOneStep applies exactly one tick of an in-flight move and returns
// the new state. It never mutates state. Calling it with no move in
// progress returns the state unchanged.
//
// A move walks one square per tick. When the walk ends on a trigger square
// the next tick performs the jump. The final tick checks for a win and
// either ends the game or hands the turn over.
func AdvanceOneStep(state GameState, table *TransitionTable, messages Messages) (GameState, Step) {
	if state.Move == nil {
		return state, Step{}
	}

	next := state.Clone()
	move := next.Move
	player := move.Player
	idx := player.index()

	switch move.Phase {
	case PhaseWalking:
		step := Step{Pause: PauseStep}
		if move.RemainingSteps > 0 {
			next.Positions[idx]++
			move.RemainingSteps--
			step.Events = []Event{{Kind: EventMove, Player: player, Square: next.Positions[idx]}}
		}
		if move.RemainingSteps > 0 {
			return next, step
		}

		if tr, ok := table.Lookup(next.Positions[idx]); ok {
			move.Phase = PhaseJumping
			move.PendingTransition = &tr
			step.Pause = PauseJump
			return next, step
		}

		next.Message = ""
		move.Phase = PhaseSettling
		return next, step

	case PhaseJumping:
		var events []Event
		if tr := move.PendingTransition; tr != nil {
			next.Positions[idx] = tr.To
			if tr.Kind == Ladder {
				next.Message = fmt.Sprintf(messages.Ladder, player)
				events = append(events, Event{Kind: EventLadder, Player: player, Square: tr.To})
			} else {
				next.Message = fmt.Sprintf(messages.Snake, player)
				events = append(events, Event{Kind: EventSnake, Player: player, Square: tr.To})
			}
		}
		move.PendingTransition = nil
		move.Phase = PhaseSettling
		return next, Step{Events: events, Pause: PauseSettle}

	default:
		var events []Event
		if next.Positions[idx] >= FinishSquare {
			next.GameOver = true
			next.Winner = player
			next.Message = fmt.Sprintf(messages.Win, player)
			events = append(events, Event{Kind: EventWin, Player: player, Square: next.Positions[idx]})
		} else {
			next.CurrentPlayer = player.Other()
		}
		next.IsMoving = false
		next.Move = nil
		return next, Step{Events: events, Pause: PauseNone}
	}
}

// ResolveMove runs an in-flight move to completion without pacing and
// returns every event it emitted.
func ResolveMove(state GameState, table *TransitionTable, messages Messages) (GameState, []Event) {
	var events []Event
	for state.Move != nil {
		var step Step
		state, step = AdvanceOneStep(state, table, messages)
		events = append(events, step.Events...)
	}
	return state, events
}
