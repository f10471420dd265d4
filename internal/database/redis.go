package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/config"
)

// NewRedis connects to redis when a URL or address is configured.
// It returns a nil client when redis is not configured.
func NewRedis(cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	case cfg.Addr != "":
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	default:
		log.Info("Redis not configured, using in-process caches")
		return nil, nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info("Redis connection established", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
