// Package cache keeps public user profiles close to the notification
// dispatcher so enrichment does not hit the database on every event.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type ProfileCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)
	Set(ctx context.Context, profile domain.PublicProfile) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

func profileKey(id uuid.UUID) string {
	return fmt.Sprintf("profiles:%s", id)
}

type RedisProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProfileCache(rdb *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis URL (or bare host:port) and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}
	return rdb, nil
}

func (c *RedisProfileCache) Get(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	val, err := c.rdb.Get(ctx, profileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p domain.PublicProfile
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, profile domain.PublicProfile) error {
	b, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, profileKey(profile.ID), b, c.ttl).Err()
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, profileKey(id)).Err()
}

// Nop is used when no redis is configured.
type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID) (*domain.PublicProfile, error) { return nil, nil }
func (Nop) Set(context.Context, domain.PublicProfile) error               { return nil }
func (Nop) Invalidate(context.Context, uuid.UUID) error                   { return nil }
