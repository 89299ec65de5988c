// Package mcp exposes the snakes and ladders REST API as Model Context
// Protocol tools so AI agents can play.
//
// The client holds no game state. Every tool call is proxied to a running
// REST server:
//   - create_session, list_sessions, get_session: session management
//   - game_state, board_view: inspect a game
//   - roll_dice: roll for player 1 or 2, optionally waiting for the move to settle
//   - reset_game, set_sound: control a session
//   - list_configs, game_instructions: boards and rules
//
// Refused rolls come back as normal results that explain the refusal. Only
// transport failures and API errors become tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
