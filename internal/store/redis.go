package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinylink/internal/shortener"
)

// Insert, click and delete each run as one Lua script so Redis applies them atomically.
var (
	insertLinkScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'target_url', ARGV[2], 'total_clicks', 0, 'created_at', ARGV[3])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
return 1
`)

	recordClickScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('HINCRBY', KEYS[1], 'total_clicks', 1)
local last = redis.call('HGET', KEYS[1], 'last_clicked_at')
if not last or tonumber(last) < tonumber(ARGV[1]) then
  redis.call('HSET', KEYS[1], 'last_clicked_at', ARGV[1])
end
return 1
`)

	deleteLinkScript = redis.NewScript(`
local n = redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return n
`)
)

// RedisStore is a Redis implementation of shortener.Repository.
// Each link is a hash under "link:<code>"; a sorted set scored by creation
// time (unix microseconds) keeps the listing order.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	createdKey string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:     client,
		prefix:     "link:",
		createdKey: "links:by_created",
	}
}

func (r *RedisStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func (r *RedisStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(code)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisStore) Insert(ctx context.Context, link *shortener.Link) error {
	created, err := insertLinkScript.Run(ctx, r.client,
		[]string{r.key(link.Code), r.createdKey},
		string(link.Code), link.TargetURL, link.CreatedAt.UnixMicro(),
	).Int()
	if err != nil {
		return err
	}

	if created == 0 {
		return shortener.ErrAlreadyExists
	}

	return nil
}

func (r *RedisStore) FindTarget(ctx context.Context, code shortener.Code) (string, error) {
	target, err := r.client.HGet(ctx, r.key(code), "target_url").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return target, nil
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Link, error) {
	fields, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	return linkFromHash(fields)
}

func (r *RedisStore) RecordClick(ctx context.Context, code shortener.Code, at time.Time) error {
	found, err := recordClickScript.Run(ctx, r.client,
		[]string{r.key(code)},
		at.UnixMicro(),
	).Int()
	if err != nil {
		return err
	}

	if found == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]*shortener.Link, error) {
	codes, err := r.client.ZRevRange(ctx, r.createdKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(codes))

	for i, code := range codes {
		cmds[i] = pipe.HGetAll(ctx, r.key(shortener.Code(code)))
	}

	if len(codes) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	links := make([]*shortener.Link, 0, len(codes))

	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}

		link, err := linkFromHash(fields)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, nil
}

func (r *RedisStore) Delete(ctx context.Context, code shortener.Code) error {
	removed, err := deleteLinkScript.Run(ctx, r.client,
		[]string{r.key(code), r.createdKey},
		string(code),
	).Int()
	if err != nil {
		return err
	}

	if removed == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func linkFromHash(fields map[string]string) (*shortener.Link, error) {
	clicks, err := strconv.ParseInt(fields["total_clicks"], 10, 64)
	if err != nil {
		return nil, err
	}

	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, err
	}

	link := &shortener.Link{
		Code:        shortener.Code(fields["code"]),
		TargetURL:   fields["target_url"],
		TotalClicks: clicks,
		CreatedAt:   time.UnixMicro(created).UTC(),
	}

	if ts, ok := fields["last_clicked_at"]; ok {
		micros, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, err
		}

		last := time.UnixMicro(micros).UTC()
		link.LastClickedAt = &last
	}

	return link, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
