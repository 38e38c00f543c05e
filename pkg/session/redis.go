package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/unitconv/pkg/cache"
)

// RedisStore keeps sessions in Redis, shared between API instances.
// Keys come from the cache Keyer so sessions live next to cached diagrams.
type RedisStore struct {
	client *redis.Client
	keyer  cache.Keyer
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A nil keyer selects the default
// keyer and a ttl of 0 selects DefaultTTL.
func NewRedisStore(client *redis.Client, keyer cache.Keyer, ttl time.Duration) *RedisStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, keyer: keyer, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return r.keyer.SessionKey(id)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (r *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := r.ttl
	if !sess.ExpiresAt.IsZero() {
		if d := time.Until(sess.ExpiresAt); d > 0 {
			ttl = d
		}
	}
	if err := r.client.Set(ctx, r.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (r *RedisStore) Close() error { return nil }

var _ Store = (*RedisStore)(nil)
