package session

import (
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/snakes-and-ladders/game/engine"
)

// newTestRedis connects to REDIS_ADDR or skips. Keys live under a
// per-test prefix and are removed afterwards.
func newTestRedis(t *testing.T) *RedisPersistence {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	_, configManager := newTestPersistence(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	rp, err := NewRedisPersistence(client, configManager, RedisOptions{
		Prefix: "snakesladders:test:" + time.Now().Format("150405.000000") + ":",
		TTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed to create redis persistence: %v", err)
	}
	t.Cleanup(func() {
		ids, _ := rp.ListAll()
		for _, id := range ids {
			rp.Delete(id)
		}
	})
	return rp
}

func TestRedisPersistence(t *testing.T) {
	rp := newTestRedis(t)
	_, configManager := newTestPersistence(t)

	session := newPersistableSession(t, "R1", configManager, engine.WithRoller(engine.NewFixedRoller(5)))
	session.Engine.RequestRoll(engine.PlayerOne)
	session.Engine.Resolve()

	if err := rp.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if !rp.Exists("r1") {
		t.Error("Expected session to exist, case-insensitively")
	}

	loaded, err := rp.Load("R1")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if got := loaded.Engine.GetState().Positions[0]; got != 5 {
		t.Errorf("Expected position 5, got %d", got)
	}

	ids, err := rp.ListAll()
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(ids) != 1 || ids[0] != "r1" {
		t.Errorf("Expected [r1], got %v", ids)
	}

	if err := rp.Delete("r1"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if err := rp.Delete("r1"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if _, err := rp.Load("r1"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisPersistenceUnreachable(t *testing.T) {
	_, configManager := newTestPersistence(t)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	if _, err := NewRedisPersistence(client, configManager, RedisOptions{Timeout: 100 * time.Millisecond}); err == nil {
		t.Error("Expected error for unreachable server")
	}
}
