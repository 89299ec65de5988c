package audio

import (
	"io"
	"sync"
)

// NopSink discards every sound.
type NopSink struct{}

// PlaySound does nothing.
func (NopSink) PlaySound(string, string) {}

// BellSink rings the terminal bell for the sounds it is told about.
type BellSink struct {
	mu    sync.Mutex
	w     io.Writer
	rings map[string]bool
}

// NewBellSink rings on w for the named sounds, or for every sound when
// names is empty.
func NewBellSink(w io.Writer, names ...string) *BellSink {
	rings := make(map[string]bool, len(names))
	for _, n := range names {
		rings[n] = true
	}
	return &BellSink{w: w, rings: rings}
}

// PlaySound writes a BEL character.
func (b *BellSink) PlaySound(name, _ string) {
	if len(b.rings) > 0 && !b.rings[name] {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write([]byte{'\a'})
}
