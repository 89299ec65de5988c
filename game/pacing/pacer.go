package pacing

import (
	"context"
	"fmt"
	"time"

	"github.com/wricardo/snakes-and-ladders/game/engine"
)

// Durations are the presentation delays between ticks of a move.
type Durations struct {
	// Step is the pause after each square walked.
	Step time.Duration `json:"step"`
	// Jump is the extra pause before a ladder or snake is taken.
	Jump time.Duration `json:"jump"`
	// Settle is the pause after a jump before the turn ends.
	Settle time.Duration `json:"settle"`
}

// Normal is the on-screen pacing of the board.
func Normal() Durations {
	return Durations{Step: 300 * time.Millisecond, Jump: 500 * time.Millisecond, Settle: time.Second}
}

// Fast keeps the animation visible at a tenth of the speed.
func Fast() Durations {
	return Durations{Step: 30 * time.Millisecond, Jump: 50 * time.Millisecond, Settle: 100 * time.Millisecond}
}

// Off applies every tick back to back.
func Off() Durations {
	return Durations{}
}

// Parse maps a pacing name to its durations.
func Parse(name string) (Durations, error) {
	switch name {
	case "", "normal":
		return Normal(), nil
	case "fast":
		return Fast(), nil
	case "off", "none":
		return Off(), nil
	}
	return Durations{}, fmt.Errorf("unknown pacing %q (want normal, fast or off)", name)
}

// For returns how long to wait after a tick that reported pause p.
func (d Durations) For(p engine.Pause) time.Duration {
	switch p {
	case engine.PauseStep:
		return d.Step
	case engine.PauseJump:
		return d.Step + d.Jump
	case engine.PauseSettle:
		return d.Settle
	}
	return 0
}

// Stepper is the part of the engine a Pacer drives.
type Stepper interface {
	Step() (engine.Step, bool)
	Resolve() []engine.Event
}

// Pacer drives an in-flight move to completion, one tick at a time.
type Pacer struct {
	durations Durations
}

// New creates a Pacer.
func New(d Durations) *Pacer {
	return &Pacer{durations: d}
}

// Durations returns the configured delays.
func (p *Pacer) Durations() Durations {
	return p.durations
}

// Run ticks s until the move settles, calling onStep after every tick.
// Cancelling ctx stops the pacing but not the move: the rest is applied at
// once and reported through onStep as one final step.
func (p *Pacer) Run(ctx context.Context, s Stepper, onStep func(engine.Step)) error {
	for {
		step, ok := s.Step()
		if !ok {
			return nil
		}
		if onStep != nil {
			onStep(step)
		}
		if step.Done() {
			return nil
		}

		wait := p.durations.For(step.Pause)
		if wait <= 0 {
			if ctx.Err() != nil {
				p.drain(s, onStep)
				return ctx.Err()
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			p.drain(s, onStep)
			return ctx.Err()
		}
	}
}

func (p *Pacer) drain(s Stepper, onStep func(engine.Step)) {
	events := s.Resolve()
	if onStep != nil {
		onStep(engine.Step{Events: events})
	}
}
