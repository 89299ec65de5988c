package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Roller produces die values in 1..DieFaces.
type Roller interface {
	Roll() int
}

// RandomRoller is a uniform die backed by a PCG source.
type RandomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller seeds a die from crypto/rand.
func NewRandomRoller() *RandomRoller {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return NewSeededRoller(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:]))
}

// NewSeededRoller returns a reproducible die.
func NewSeededRoller(seed1, seed2 uint64) *RandomRoller {
	return &RandomRoller{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Roll returns a value in 1..DieFaces.
func (r *RandomRoller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(DieFaces) + 1
}

// FixedRoller replays a scripted sequence of values, cycling when exhausted.
type FixedRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewFixedRoller returns a die that yields values in order.
func NewFixedRoller(values ...int) *FixedRoller {
	return &FixedRoller{values: values}
}

// Roll returns the next scripted value.
func (r *FixedRoller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 1
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func clampDie(v int) int {
	if v < 1 {
		return 1
	}
	if v > DieFaces {
		return DieFaces
	}
	return v
}
