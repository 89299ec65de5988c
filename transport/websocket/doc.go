// Package websocket pushes live game updates to browsers.
//
// A Hub groups connections by session ID. Watchers connect with
// ?session=<id> and receive one JSON Message per frame:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2", "event": "sound", "data": {"name": "ladder", "source": "sounds/ladder.mp3"}}
//	{"session_id": "a1b2", "event": "reset", "data": {...}}
//
// A state_update is sent for every tick of a move, so a browser can animate
// the token square by square without knowing the pacing rules. Connections
// are read-only; rolls go through the REST API.
//
// Hub satisfies service.Broadcaster. Broadcasts are queued on a buffered
// channel and never block the game; when the queue is full the message is
// dropped, and a client whose own buffer fills up is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	svc := service.NewGameService(sessions, configs, service.WithBroadcaster(hub))
package websocket
