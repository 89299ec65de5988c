// Package engine provides the core game logic for two-player Snakes and Ladders.
//
// The engine package implements the game mechanics including:
//   - Turn order and roll preconditions
//   - Square-by-square movement driven by an external scheduler
//   - Ladder and snake transitions from an immutable table
//   - Win detection and reset
//   - Board configuration loading and validation
//
// Core Types:
//
// GameState is a plain value. AdvanceOneStep is a pure function that applies
// one tick of an in-flight move (MoveInProgress) and reports what pause the
// scheduler should take before the next tick. GameEngine wraps one GameState
// behind a lock, rolls the die through an injected Roller and forwards every
// event to an injected AudioNotifier. TransitionTable is built once per
// board and never changes.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultBoardConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if gameEngine.RequestRoll(engine.PlayerOne) {
//		for {
//			step, ok := gameEngine.Step()
//			if !ok {
//				break
//			}
//			time.Sleep(pacing.For(step.Pause))
//		}
//	}
//
// Game Rules:
//
// Two players start off the board on square 0. On their turn a player rolls
// one die and walks that many squares. Landing on the foot of a ladder
// climbs it, landing on a snake's head slides down to its tail. Reaching or
// passing square 100 wins; there is no exact-roll rule. Turns alternate
// after every completed move until someone wins.
package engine
