package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"peasydeal-link-converter/config"
)

const (
	shortLinkKeyPrefix = "linkconv:shortlink:"

	DefaultShortLinkTTL = 24 * time.Hour
)

// ShortLinks stores affiliate short links keyed by canonical URL.
type ShortLinks struct {
	client *redis.Client
	ttl    time.Duration
}

func NewShortLinks(client *redis.Client, ttl time.Duration) *ShortLinks {
	if ttl <= 0 {
		ttl = DefaultShortLinkTTL
	}
	return &ShortLinks{client: client, ttl: ttl}
}

// NewShortLinksFromConfig returns nil when Redis is disabled.
func NewShortLinksFromConfig(client *redis.Client, cfg *config.Config) *ShortLinks {
	if client == nil {
		return nil
	}
	return NewShortLinks(client, cfg.Redis.ShortLinkTTL)
}

// ShortLinkKey hashes the canonical URL so keys stay bounded in size.
func ShortLinkKey(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return shortLinkKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *ShortLinks) Get(ctx context.Context, canonical string) (string, bool, error) {
	v, err := s.client.Get(ctx, ShortLinkKey(canonical)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return v, true, nil
}

func (s *ShortLinks) Set(ctx context.Context, canonical, shortLink string) error {
	if err := s.client.Set(ctx, ShortLinkKey(canonical), shortLink, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *ShortLinks) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
