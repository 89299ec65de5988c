package engine

import (
	"errors"
	"testing"
)

func TestNewTransitionTable_Classic(t *testing.T) {
	table := classicTable(t)

	if table.Len() != 19 {
		t.Errorf("Expected 19 triggers, got %d", table.Len())
	}

	tests := []struct {
		square int
		kind   TransitionKind
		dest   int
	}{
		{2, Ladder, 38},
		{28, Ladder, 84},
		{78, Ladder, 98},
		{16, Snake, 6},
		{87, Snake, 24},
		{95, Snake, 75},
	}
	for _, tt := range tests {
		if !table.IsTrigger(tt.square) {
			t.Errorf("Expected %d to be a trigger", tt.square)
		}
		if got := table.Kind(tt.square); got != tt.kind {
			t.Errorf("Expected %d to be a %s, got %q", tt.square, tt.kind, got)
		}
		if got, ok := table.Destination(tt.square); !ok || got != tt.dest {
			t.Errorf("Expected %d -> %d, got %d (ok=%t)", tt.square, tt.dest, got, ok)
		}
	}

	for _, square := range []int{0, 1, 3, 50, 99, 100} {
		if table.IsTrigger(square) {
			t.Errorf("Expected %d not to be a trigger", square)
		}
		if _, ok := table.Destination(square); ok {
			t.Errorf("Expected no destination for %d", square)
		}
		if table.Kind(square) != "" {
			t.Errorf("Expected no kind for %d", square)
		}
	}
}

func TestNewTransitionTable_Invariants(t *testing.T) {
	table := classicTable(t)
	ladders := table.Ladders()
	snakes := table.Snakes()

	for from, to := range ladders {
		if to <= from {
			t.Errorf("Ladder %d -> %d does not climb", from, to)
		}
		if _, ok := snakes[from]; ok {
			t.Errorf("Square %d is both ladder and snake", from)
		}
	}
	for from, to := range snakes {
		if to >= from {
			t.Errorf("Snake %d -> %d does not descend", from, to)
		}
	}
	for _, tr := range table.Triggers() {
		if tr.From == 0 || tr.From == FinishSquare || tr.To == 0 || tr.To == FinishSquare {
			t.Errorf("Transition %+v touches the start or finish", tr)
		}
	}
}

func TestNewTransitionTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ladders map[int]int
		snakes  map[int]int
	}{
		{"ladder goes down", map[int]int{40: 10}, nil},
		{"ladder to itself", map[int]int{40: 40}, nil},
		{"snake goes up", nil, map[int]int{10: 40}},
		{"ladder to finish", map[int]int{90: 100}, nil},
		{"snake from finish", nil, map[int]int{100: 3}},
		{"trigger on start", map[int]int{0: 5}, nil},
		{"snake to start", nil, map[int]int{20: 0}},
		{"shared trigger", map[int]int{30: 60}, map[int]int{30: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransitionTable(tt.ladders, tt.snakes)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestTransitionTable_CopiesAreDetached(t *testing.T) {
	table := classicTable(t)
	ladders := table.Ladders()
	ladders[2] = 99
	delete(ladders, 7)

	if dest, _ := table.Destination(2); dest != 38 {
		t.Errorf("Expected table to be immutable, got 2 -> %d", dest)
	}
	if !table.IsTrigger(7) {
		t.Error("Expected 7 to remain a trigger")
	}
}

func TestTransitionTable_TriggersSorted(t *testing.T) {
	triggers := classicTable(t).Triggers()
	for i := 1; i < len(triggers); i++ {
		if triggers[i-1].From >= triggers[i].From {
			t.Fatalf("Expected ascending triggers, got %d before %d", triggers[i-1].From, triggers[i].From)
		}
	}
	if triggers[0].From != 2 || triggers[len(triggers)-1].From != 95 {
		t.Errorf("Expected triggers from 2 to 95, got %d to %d", triggers[0].From, triggers[len(triggers)-1].From)
	}
}

func TestAnalyzeTable(t *testing.T) {
	stats := AnalyzeTable(classicTable(t))

	if stats.Ladders != 10 || stats.Snakes != 9 {
		t.Errorf("Expected 10 ladders and 9 snakes, got %d and %d", stats.Ladders, stats.Snakes)
	}
	if stats.LongestClimb.From != 28 {
		t.Errorf("Expected longest climb from 28, got %+v", stats.LongestClimb)
	}
	if stats.LongestSlide.From != 87 {
		t.Errorf("Expected longest slide from 87, got %+v", stats.LongestSlide)
	}
	if len(stats.FinalApproach) != 2 {
		t.Errorf("Expected 2 snakes in the last row, got %v", stats.FinalApproach)
	}
	if len(stats.Chained) != 0 {
		t.Errorf("Expected no chained transitions, got %v", stats.Chained)
	}
}
