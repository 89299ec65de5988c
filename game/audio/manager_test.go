package audio

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	played []string
}

func (r *recordingSink) PlaySound(name, _ string) {
	r.played = append(r.played, name)
}

func soundFS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, source := range DefaultSounds {
		fsys[source] = &fstest.MapFile{Data: []byte("ID3")}
	}
	return fsys
}

func TestManager_LoadAndPlay(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(soundFS(), sink)

	require.NoError(t, m.LoadDefaults())
	assert.True(t, m.Enabled())
	assert.Empty(t, m.Failures())

	m.Play("roll")
	m.Play("ladder")
	m.Play("unknown")

	assert.Equal(t, []string{"roll", "ladder"}, sink.played)
}

func TestManager_LoadFailureDisablesEverything(t *testing.T) {
	fsys := soundFS()
	delete(fsys, "sounds/snake.mp3")
	fsys["sounds/win.mp3"] = &fstest.MapFile{}

	sink := &recordingSink{}
	m := NewManager(fsys, sink)

	err := m.LoadAll(DefaultSounds)
	require.Error(t, err)
	assert.False(t, m.Enabled())

	failures := m.Failures()
	require.Len(t, failures, 2)
	names := []string{failures[0].Name, failures[1].Name}
	assert.ElementsMatch(t, []string{"snake", "win"}, names)

	m.Play("roll")
	m.Play("move")
	assert.Empty(t, sink.played)

	m.SetEnabled(true)
	assert.False(t, m.Enabled(), "toggle must not revive broken audio")
}

func TestManager_LoadErrors(t *testing.T) {
	fsys := fstest.MapFS{"empty.mp3": &fstest.MapFile{}}
	m := NewManager(fsys, nil)

	err := m.Load("a", "missing.mp3")
	assert.True(t, errors.Is(err, ErrSoundNotFound))

	err = m.Load("b", "empty.mp3")
	assert.True(t, errors.Is(err, ErrEmptySound))
}

func TestManager_Toggle(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager(soundFS(), sink)
	require.NoError(t, m.Load("move", "sounds/move.mp3"))

	m.SetEnabled(false)
	m.Play("move")
	assert.Empty(t, sink.played)

	m.SetEnabled(true)
	m.Play("move")
	assert.Equal(t, []string{"move"}, sink.played)
}

func TestManager_NilFSAcceptsSources(t *testing.T) {
	var got []string
	m := NewManager(nil, SinkFunc(func(name, source string) {
		got = append(got, name+"="+source)
	}))

	require.NoError(t, m.Load("win", "sounds/win.mp3"))
	m.Play("win")
	assert.Equal(t, []string{"win=sounds/win.mp3"}, got)
}

func TestBellSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewBellSink(&buf, "win")

	sink.PlaySound("move", "")
	sink.PlaySound("win", "")
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	all := NewBellSink(&buf)
	all.PlaySound("move", "")
	all.PlaySound("roll", "")
	assert.Equal(t, "\a\a", buf.String())
}
