package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

var ErrInvalidTransition = errors.New("invalid transition")

// TransitionKind is either a ladder or a snake.
type TransitionKind string

const (
	Ladder TransitionKind = "ladder"
	Snake  TransitionKind = "snake"
)

// Transition is a single trigger-to-destination jump.
type Transition struct {
	Kind TransitionKind `json:"kind"`
	From int            `json:"from"`
	To   int            `json:"to"`
}

// TransitionTable is the immutable set of ladders and snakes of one board.
// Trigger squares are unique across both kinds.
type TransitionTable struct {
	byTrigger map[int]Transition
	ladders   map[int]int
	snakes    map[int]int
}

// NewTransitionTable validates the ladder and snake maps and builds a table.
// Ladders must climb, snakes must descend, and no square may be 0 or at or
// beyond the finish.
func NewTransitionTable(ladders, snakes map[int]int) (*TransitionTable, error) {
	t := &TransitionTable{
		byTrigger: make(map[int]Transition, len(ladders)+len(snakes)),
		ladders:   make(map[int]int, len(ladders)),
		snakes:    make(map[int]int, len(snakes)),
	}

	for from, to := range ladders {
		if err := checkSquares(Ladder, from, to); err != nil {
			return nil, err
		}
		if to <= from {
			return nil, fmt.Errorf("%w: ladder %d->%d must climb", ErrInvalidTransition, from, to)
		}
		t.ladders[from] = to
		t.byTrigger[from] = Transition{Kind: Ladder, From: from, To: to}
	}

	for from, to := range snakes {
		if err := checkSquares(Snake, from, to); err != nil {
			return nil, err
		}
		if to >= from {
			return nil, fmt.Errorf("%w: snake %d->%d must descend", ErrInvalidTransition, from, to)
		}
		if _, clash := t.ladders[from]; clash {
			return nil, fmt.Errorf("%w: square %d is both a ladder foot and a snake head", ErrInvalidTransition, from)
		}
		t.snakes[from] = to
		t.byTrigger[from] = Transition{Kind: Snake, From: from, To: to}
	}

	return t, nil
}

func checkSquares(kind TransitionKind, from, to int) error {
	if from < 1 || from >= FinishSquare {
		return fmt.Errorf("%w: %s trigger %d outside 1..%d", ErrInvalidTransition, kind, from, FinishSquare-1)
	}
	if to < 1 || to >= FinishSquare {
		return fmt.Errorf("%w: %s destination %d outside 1..%d", ErrInvalidTransition, kind, to, FinishSquare-1)
	}
	return nil
}

// IsTrigger reports whether landing on square causes a jump.
func (t *TransitionTable) IsTrigger(square int) bool {
	_, ok := t.byTrigger[square]
	return ok
}

// Destination returns where a trigger square leads.
func (t *TransitionTable) Destination(square int) (int, bool) {
	tr, ok := t.byTrigger[square]
	return tr.To, ok
}

// Kind returns the kind of jump at square, or "" if there is none.
func (t *TransitionTable) Kind(square int) TransitionKind {
	return t.byTrigger[square].Kind
}

// Lookup returns the full transition at square.
func (t *TransitionTable) Lookup(square int) (Transition, bool) {
	tr, ok := t.byTrigger[square]
	return tr, ok
}

// Ladders returns a copy of the ladder map.
func (t *TransitionTable) Ladders() map[int]int {
	return lo.Assign(t.ladders)
}

// Snakes returns a copy of the snake map.
func (t *TransitionTable) Snakes() map[int]int {
	return lo.Assign(t.snakes)
}

// Triggers returns every transition ordered by trigger square.
func (t *TransitionTable) Triggers() []Transition {
	out := lo.Values(t.byTrigger)
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Len is the number of trigger squares.
func (t *TransitionTable) Len() int {
	return len(t.byTrigger)
}
