// Package service provides the business logic layer for Snakes and Ladders.
//
// The service package implements:
//   - Multi-session game management
//   - Roll handling with paced, observable move resolution
//   - Reset, board views for renderers and the per-session sound toggle
//   - Configuration listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
// Broadcaster receives every intermediate state and sound cue for live clients.
//
// Architecture:
//
// The service layer sits between the input surfaces (HTTP, WebSocket, MCP)
// and the game engine. A roll is accepted or ignored synchronously; an
// accepted roll is then ticked to completion by a pacing.Pacer, either in
// the background or inline when the caller asks to wait. Each tick is
// broadcast, so watchers see the token walk square by square.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithBroadcaster(hub),
//		service.WithPacing(pacing.Normal()),
//	)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Roll(ctx, info.ID, 1, true)
//
// Session Management:
//
// Sessions are identified by 4-character IDs and hold independent games.
// Resetting a session waits for a running move to settle first.
package service
