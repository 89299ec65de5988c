// Package pacing schedules the ticks of a move so players can watch a token
// walk the board.
//
// The engine applies a move one tick at a time and tags each tick with the
// kind of pause that should follow it. A Pacer turns those tags into real
// delays and keeps ticking until the move settles:
//
//	p := pacing.New(pacing.Normal())
//	if eng.RequestRoll(engine.PlayerOne) {
//		_ = p.Run(ctx, eng, func(step engine.Step) { publish(eng.GetState()) })
//	}
//
// Off() makes a Pacer apply a whole move without sleeping, which is what
// tests and headless clients use.
package pacing
