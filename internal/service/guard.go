package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InFlightGuard keeps one submission per form instance across requests.
// Acquire hands out a token and Release frees the key only while that
// token still holds it.
type InFlightGuard interface {
	Acquire(ctx context.Context, key string) (token string, acquired bool, err error)
	Release(ctx context.Context, key, token string)
}

// MemoryGuard holds keys in process
type MemoryGuard struct {
	held sync.Map
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	if _, loaded := g.held.LoadOrStore(key, token); loaded {
		return "", false, nil
	}
	return token, true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key, token string) {
	g.held.CompareAndDelete(key, token)
}

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares held keys between replicas. A key expires after ttl
// so a crashed replica cannot block a form forever.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, logger: logger}
}

func inFlightKey(key string) string {
	return "inflight:" + key
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, inFlightKey(key), token, g.ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (g *RedisGuard) Release(ctx context.Context, key, token string) {
	if token == "" {
		return
	}
	if err := releaseScript.Run(ctx, g.client, []string{inFlightKey(key)}, token).Err(); err != nil {
		// the key still expires after ttl
		g.logger.Warn("Failed to release in-flight guard", zap.String("key", key), zap.Error(err))
	}
}
