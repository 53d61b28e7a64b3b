package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinylink/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching of redirect targets.
// Only FindTarget is served from the cache; stats and listings always hit the
// wrapped store so click counters are never stale.
type RedisCacheRepository struct {
	shortener.Repository

	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		Repository: store,
		client:     client,
		prefix:     "cache:target:",
		ttl:        ttl,
	}
}

// Insert stores the link in the underlying store and warms the cache.
func (r *RedisCacheRepository) Insert(ctx context.Context, link *shortener.Link) error {
	if err := r.Repository.Insert(ctx, link); err != nil {
		return err
	}

	// Write-through: update cache after successful insert
	r.cacheTarget(ctx, link.Code, link.TargetURL)

	return nil
}

// FindTarget checks the cache first and populates it on a miss.
func (r *RedisCacheRepository) FindTarget(ctx context.Context, code shortener.Code) (string, error) {
	target, err := r.client.Get(ctx, r.prefix+string(code)).Result()
	if err == nil {
		return target, nil
	}

	// Cache miss or cache failure - fall back to the store
	target, err = r.Repository.FindTarget(ctx, code)
	if err != nil {
		return "", err
	}

	r.cacheTarget(ctx, code, target)

	return target, nil
}

// Delete removes the link from the store and evicts its cached target.
func (r *RedisCacheRepository) Delete(ctx context.Context, code shortener.Code) error {
	err := r.Repository.Delete(ctx, code)
	if err != nil && !errors.Is(err, shortener.ErrNotFound) {
		return err
	}

	r.client.Del(ctx, r.prefix+string(code))

	return err
}

func (r *RedisCacheRepository) cacheTarget(ctx context.Context, code shortener.Code, target string) {
	_ = r.client.Set(ctx, r.prefix+string(code), target, r.ttl).Err()
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
