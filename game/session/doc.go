// Package session keeps the live games of a server.
//
// Manager maps short case-insensitive IDs to service.Session values, each
// owning its own engine. IDs left empty on Create are generated as four hex
// characters from crypto/rand.
//
// Persistence:
//
// A Manager built with NewManagerWithPersistence saves every new session
// and loads unknown IDs from its store on Get. Two stores are provided:
//
//   - FilePersistence writes one JSON document per session into a directory
//   - RedisPersistence stores the same document under a key prefix, with an
//     optional TTL
//
// Only the current game is persisted: positions, turn, dice, message and
// the move in flight, plus the session's sound preference. A session saved
// in the middle of a move has that move applied when it is loaded.
//
// Usage:
//
//	store, err := session.NewFilePersistence("sessions", configs)
//	if err != nil {
//		log.Fatal().Err(err).Msg("session store")
//	}
//	manager := session.NewManagerWithPersistence(store)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Warn().Err(err).Msg("no sessions restored")
//	}
//
//	sess, err := manager.Create("", "classic", configs.GetDefault())
package session
