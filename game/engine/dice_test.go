package engine

import "testing"

func TestRandomRoller_Range(t *testing.T) {
	r := NewRandomRoller()
	seen := make(map[int]int)
	for i := 0; i < 6000; i++ {
		v := r.Roll()
		if v < 1 || v > DieFaces {
			t.Fatalf("Roll %d out of range: %d", i, v)
		}
		seen[v]++
	}
	for face := 1; face <= DieFaces; face++ {
		if seen[face] == 0 {
			t.Errorf("Face %d never rolled in 6000 throws", face)
		}
	}
}

func TestSeededRoller_Reproducible(t *testing.T) {
	a := NewSeededRoller(1, 2)
	b := NewSeededRoller(1, 2)
	for i := 0; i < 50; i++ {
		if x, y := a.Roll(), b.Roll(); x != y {
			t.Fatalf("Roll %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestFixedRoller(t *testing.T) {
	r := NewFixedRoller(3, 5)
	want := []int{3, 5, 3, 5}
	for i, w := range want {
		if got := r.Roll(); got != w {
			t.Errorf("Roll %d: expected %d, got %d", i, w, got)
		}
	}

	if got := NewFixedRoller().Roll(); got != 1 {
		t.Errorf("Expected empty script to roll 1, got %d", got)
	}
}

func TestClampDie(t *testing.T) {
	tests := map[int]int{-2: 1, 0: 1, 1: 1, 4: 4, 6: 6, 9: 6}
	for in, want := range tests {
		if got := clampDie(in); got != want {
			t.Errorf("clampDie(%d): expected %d, got %d", in, want, got)
		}
	}
}
