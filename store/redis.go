// Package store provides StateStore backends for the behavior SDK's
// conversation-turn metadata. The Redis store suits multi-instance
// deployments where turn counters must survive a process restart and be
// visible to every replica; it stores nothing but ephemeral turn state.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	behaviorsdk "github.com/personaforge/behavior-sdk-go"
)

var _ behaviorsdk.StateStore = (*RedisStateStore)(nil)

// RedisStateStore implements behaviorsdk.StateStore on Redis. Keys are
// namespaced as "{prefix}:{namespace}:{key}".
type RedisStateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Prefix string        // key prefix, default "behavior"
	TTL    time.Duration // expiry for entries, 0 = no expiry
}

// NewRedisStateStore creates a StateStore backed by Redis. Works with a
// Client, ClusterClient or Ring.
func NewRedisStateStore(client redis.UniversalClient, config ...RedisConfig) *RedisStateStore {
	cfg := RedisConfig{Prefix: "behavior"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "behavior"
	}
	return &RedisStateStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisStateStore) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

func (r *RedisStateStore) Get(namespace, key string) (string, error) {
	val, err := r.client.Get(r.ctx, r.key(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *RedisStateStore) Set(namespace, key, value string) error {
	return r.client.Set(r.ctx, r.key(namespace, key), value, r.ttl).Err()
}

func (r *RedisStateStore) Delete(namespace, key string) error {
	return r.client.Del(r.ctx, r.key(namespace, key)).Err()
}

func (r *RedisStateStore) Incr(namespace, key string) (int, error) {
	k := r.key(namespace, key)
	n, err := r.client.Incr(r.ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if r.ttl > 0 {
		r.client.Expire(r.ctx, k, r.ttl)
	}
	return int(n), nil
}
