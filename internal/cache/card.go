// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// card.go caches exported card JPEGs in Valkey. Rendering is deterministic,
// so the key is a digest of the static card and the export scale: the same
// resolved card always maps to the same image.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"idcards/internal/card"
)

const (
	// cardKeyPrefix is the Valkey key prefix for cached card images.
	cardKeyPrefix = "card:"

	// DefaultCardTTL is how long an exported image stays cached. Remote
	// photos and logos may change behind the same URL, so entries expire.
	DefaultCardTTL = 10 * time.Minute
)

// CardCache stores exported card images in Valkey.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCardCache creates a card cache backed by the given Valkey client.
func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	return &CardCache{client: client, ttl: ttl}
}

// CardKey returns the cache key of c exported at scale. c should already
// be the static copy so that editability does not split entries.
func CardKey(c *card.Card, scale int) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode card key: %w", err)
	}
	h := sha256.New()
	fmt.Fprintf(h, "%d:", scale)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached image for key. Errors count as misses.
func (cc *CardCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, cardKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("card cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("card cache hit", "key", key)
	return val, true
}

// Set stores an exported image under key with the configured TTL.
func (cc *CardCache) Set(ctx context.Context, key string, jpeg []byte) {
	if err := cc.client.Set(ctx, cardKeyPrefix+key, jpeg, cc.ttl).Err(); err != nil {
		slog.Warn("card cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached card image by scanning for the prefix.
// Used when association settings change, since a logo URL may now serve
// different bytes.
func (cc *CardCache) InvalidateAll(ctx context.Context) int {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := cc.client.Scan(ctx, cursor, cardKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("card cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("card cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("card cache cleared", "deleted", deleted)
	}
	return deleted
}
