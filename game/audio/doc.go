// Package audio plays short sound cues for game events.
//
// The engine only knows the Notifier contract: Load(name, source) and
// Play(name). Manager implements it. Sources are checked against an fs.FS
// when loaded; if any sound fails to load, audio is switched off for good
// and the failure is kept for display. Playback itself is delegated to a
// Sink, so the same Manager drives a terminal bell or browser clients over
// a websocket.
//
//	m := audio.NewManager(os.DirFS("."), audio.NewBellSink(os.Stderr, "ladder", "snake", "win"))
//	_ = m.LoadAll(audio.DefaultSounds)
//	m.Play("ladder")
package audio
