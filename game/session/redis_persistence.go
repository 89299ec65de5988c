package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/snakes-and-ladders/game/engine"
	"github.com/wricardo/snakes-and-ladders/game/service"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "snakesladders:session:"

// RedisPersistence implements SessionPersistence on a Redis server. Each
// session is one JSON string under prefix+id.
type RedisPersistence struct {
	client        redis.UniversalClient
	prefix        string
	ttl           time.Duration
	timeout       time.Duration
	configManager service.ConfigManager
	engineOpts    []engine.Option
}

// RedisOptions configures RedisPersistence.
type RedisOptions struct {
	Prefix string
	// TTL expires idle sessions server-side. Zero keeps them forever.
	TTL time.Duration
	// Timeout bounds each Redis call.
	Timeout time.Duration
}

// NewRedisPersistence wraps an existing client. The connection is checked
// with PING.
func NewRedisPersistence(client redis.UniversalClient, configManager service.ConfigManager, opts RedisOptions, engineOpts ...engine.Option) (*RedisPersistence, error) {
	if opts.Prefix == "" {
		opts.Prefix = DefaultRedisPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}

	rp := &RedisPersistence{
		client:        client,
		prefix:        opts.Prefix,
		ttl:           opts.TTL,
		timeout:       opts.Timeout,
		configManager: configManager,
		engineOpts:    engineOpts,
	}

	ctx, cancel := rp.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rp, nil
}

func (rp *RedisPersistence) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rp.timeout)
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + strings.ToLower(id)
}

// Save stores a session as JSON
func (rp *RedisPersistence) Save(session *service.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	ctx, cancel := rp.ctx()
	defer cancel()
	if err := rp.client.Set(ctx, rp.key(session.ID), data, rp.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load retrieves a session by ID
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := rp.ctx()
	defer cancel()

	raw, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return decodeSession(raw, rp.configManager, rp.engineOpts)
}

// Delete removes a session
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := rp.ctx()
	defer cancel()

	n, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := rp.ctx()
	defer cancel()

	var ids []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), rp.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return ids, nil
}

// Exists checks if a session is stored
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := rp.ctx()
	defer cancel()

	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}
