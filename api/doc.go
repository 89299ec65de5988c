// Package api provides HTTP REST API handlers for the snakes and ladders game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "quick"})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/board - Board view with geometry for renderers
//   - POST /api/sessions/{id}/roll - Roll for a player ({"player": 1, "wait": true})
//   - POST /api/sessions/{id}/reset - Start over once the current move settles
//   - GET|PUT /api/sessions/{id}/sound - Read or toggle sound ({"enabled": false})
//
// Configuration:
//   - GET /api/configs - List available boards
//   - GET /api/configs/{name} - Get one board
//   - POST /api/configs - Save a board
//
// A refused roll (wrong turn, game over, move in flight) is a 200 response
// with "accepted": false and a reason. Errors are returned as JSON:
//
//	{"error": "session not found: a1b2"}
//
// Missing sessions and configs map to 404, invalid boards to 400 and a reset
// that could not wait for a move to settle to 409.
//
// Live updates are served on /ws?session={id}.
package api
