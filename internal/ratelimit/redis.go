package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Atomically opens or advances a window stored as a hash {count, reset}.
// reset is unix milliseconds supplied by the caller so the limiter's
// clock, not the redis server's, decides window boundaries.
const fixedWindowLuaScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

local reset = tonumber(redis.call("HGET", key, "reset") or "0")
if reset == 0 or reset < now then
    reset = now + window
    redis.call("HSET", key, "count", 0, "reset", reset)
end

local count = redis.call("HINCRBY", key, "count", 1)

local ttl = reset - now
if ttl < 1 then
    ttl = 1
end
redis.call("PEXPIRE", key, ttl)

return {count, reset}
`

// RedisStore keeps counters in redis so limits hold across instances
type RedisStore struct {
	client *redis.Client
	script *redis.Script
	prefix string
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		script: redis.NewScript(fixedWindowLuaScript),
		prefix: "ratelimit:",
	}
}

// NewRedisStoreFromURL connects to redis and verifies the connection
func NewRedisStoreFromURL(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStore(client), nil
}

// Close releases the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Increment implements Store
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (int, time.Time, error) {
	res, err := s.script.Run(ctx, s.client, []string{s.prefix + key}, now.UnixMilli(), window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis increment: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("redis increment: unexpected reply length %d", len(res))
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}
