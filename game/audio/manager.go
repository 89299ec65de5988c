package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrSoundNotFound = errors.New("sound not found")
	ErrEmptySound    = errors.New("sound file is empty")
)

// Notifier loads named sounds and plays them on demand.
type Notifier interface {
	Load(name, source string) error
	Play(name string)
}

// Sink performs the actual playback of a loaded sound.
type Sink interface {
	PlaySound(name, source string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name, source string)

// PlaySound calls f.
func (f SinkFunc) PlaySound(name, source string) { f(name, source) }

// LoadFailure records one sound that could not be loaded.
type LoadFailure struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

// DefaultSounds maps the event names the engine emits to their files.
var DefaultSounds = map[string]string{
	"roll":   "sounds/roll.mp3",
	"move":   "sounds/move.mp3",
	"ladder": "sounds/ladder.mp3",
	"snake":  "sounds/snake.mp3",
	"win":    "sounds/win.mp3",
}

// Manager is a Notifier that resolves sources in a file system and forwards
// playback to a Sink. Any load failure disables all audio for the lifetime
// of the Manager. Play never fails and never blocks on errors.
type Manager struct {
	mu       sync.RWMutex
	fsys     fs.FS
	sink     Sink
	sounds   map[string]string
	enabled  bool
	broken   bool
	failures []LoadFailure
}

// NewManager creates an enabled Manager. A nil fsys accepts every source
// without checking it, which is what browser-side playback needs.
func NewManager(fsys fs.FS, sink Sink) *Manager {
	if sink == nil {
		sink = NopSink{}
	}
	return &Manager{
		fsys:    fsys,
		sink:    sink,
		sounds:  make(map[string]string),
		enabled: true,
	}
}

// Load registers a sound under name after checking the source is readable.
func (m *Manager) Load(name, source string) error {
	err := m.check(source)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.broken = true
		m.failures = append(m.failures, LoadFailure{Name: name, Source: source, Error: err.Error()})
		log.Warn().Err(err).Str("sound", name).Str("source", source).Msg("audio disabled")
		return fmt.Errorf("load sound %q: %w", name, err)
	}

	m.sounds[name] = source
	return nil
}

func (m *Manager) check(source string) error {
	if m.fsys == nil {
		return nil
	}

	f, err := m.fsys.Open(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSoundNotFound, source)
		}
		return err
	}
	defer f.Close()

	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySound, source)
	}
	return nil
}

// LoadAll loads every sound in the map and returns the first error.
// All sounds are attempted so the failure list is complete.
func (m *Manager) LoadAll(sounds map[string]string) error {
	var first error
	for name, source := range sounds {
		if err := m.Load(name, source); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LoadDefaults loads DefaultSounds.
func (m *Manager) LoadDefaults() error {
	return m.LoadAll(DefaultSounds)
}

// Play forwards a loaded sound to the sink when audio is on.
func (m *Manager) Play(name string) {
	m.mu.RLock()
	source, ok := m.sounds[name]
	active := m.enabled && !m.broken
	sink := m.sink
	m.mu.RUnlock()

	if !active || !ok {
		return
	}
	sink.PlaySound(name, source)
}

// SetEnabled is the user's sound toggle. Audio disabled by a load failure
// stays off.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled reports whether sounds will actually be played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled && !m.broken
}

// Failures returns the sounds that failed to load.
func (m *Manager) Failures() []LoadFailure {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LoadFailure(nil), m.failures...)
}

// SetSink swaps the playback sink.
func (m *Manager) SetSink(sink Sink) {
	if sink == nil {
		sink = NopSink{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
}
