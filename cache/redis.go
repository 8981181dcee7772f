package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"peasydeal-link-converter/config"
)

// NewRedisOptions maps the Redis section of the config onto client options.
func NewRedisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", strings.TrimSpace(cfg.Host), cfg.Port),
		Username: strings.TrimSpace(cfg.User),
		Password: cfg.Password,
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Scheme), "rediss") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedis returns nil when REDIS_HOST is unset; consumers treat a nil
// client as "no cache".
func NewRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Redis.Host) == "" {
		log.Infow("redis_disabled", "reason", "missing REDIS_HOST")
		return nil, nil
	}

	opts := NewRedisOptions(cfg.Redis)
	client := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				_ = client.Close()
				return fmt.Errorf("redis ping failed: %w", err)
			}
			log.Infow("redis_connected", "addr", opts.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil {
				log.Warnw("redis_close_failed", "err", err)
			}
			return nil
		},
	})

	return client, nil
}
