package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// PermissionCache stores permission lookups by employee email.
// Misses and backend failures both report ok=false.
type PermissionCache interface {
	Get(ctx context.Context, email string) (domain.Permissions, bool)
	Set(ctx context.Context, email string, perms domain.Permissions)
	Delete(ctx context.Context, email string)
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (domain.Permissions, bool) { return domain.Permissions{}, false }
func (NoopCache) Set(context.Context, string, domain.Permissions)        {}
func (NoopCache) Delete(context.Context, string)                         {}

// RedisCache keeps permissions in redis under "permissions:{email}"
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a redis-backed cache
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func permissionsKey(email string) string {
	return "permissions:" + email
}

func (c *RedisCache) Get(ctx context.Context, email string) (domain.Permissions, bool) {
	raw, err := c.client.Get(ctx, permissionsKey(email)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Permission cache read failed", zap.String("email", email), zap.Error(err))
		}
		return domain.Permissions{}, false
	}
	var perms domain.Permissions
	if err := json.Unmarshal(raw, &perms); err != nil {
		c.logger.Warn("Discarding malformed cached permissions", zap.String("email", email), zap.Error(err))
		return domain.Permissions{}, false
	}
	return perms, true
}

func (c *RedisCache) Set(ctx context.Context, email string, perms domain.Permissions) {
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, permissionsKey(email), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Permission cache write failed", zap.String("email", email), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, email string) {
	if err := c.client.Del(ctx, permissionsKey(email)).Err(); err != nil {
		c.logger.Warn("Permission cache delete failed", zap.String("email", email), zap.Error(err))
	}
}
