package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestLimiter_FixedWindow(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lim := New(store, 3, 10*time.Minute, "form-submit")

			for i := 1; i <= 3; i++ {
				res, err := lim.Allow(ctx, "1.2.3.4", base.Add(time.Duration(i)*time.Second))
				require.NoError(t, err)
				assert.True(t, res.Allowed, "hit %d", i)
				assert.Equal(t, 3-i, res.Remaining)
				assert.Equal(t, base.Add(time.Second+10*time.Minute), res.Reset, "window opens at first hit")
			}

			res, err := lim.Allow(ctx, "1.2.3.4", base.Add(5*time.Minute))
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, 0, res.Remaining)
			assert.Equal(t, 3, res.Limit)

			other, err := lim.Allow(ctx, "5.6.7.8", base.Add(5*time.Minute))
			require.NoError(t, err)
			assert.True(t, other.Allowed, "keys are independent")
		})
	}
}

func TestLimiter_NewWindowAfterReset(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lim := New(store, 1, time.Minute, "auth")

			first, err := lim.Allow(ctx, "ip", base)
			require.NoError(t, err)
			require.True(t, first.Allowed)

			denied, err := lim.Allow(ctx, "ip", base.Add(30*time.Second))
			require.NoError(t, err)
			assert.False(t, denied.Allowed)

			atReset, err := lim.Allow(ctx, "ip", base.Add(time.Minute))
			require.NoError(t, err)
			assert.False(t, atReset.Allowed, "window is still open at exactly its reset time")

			after, err := lim.Allow(ctx, "ip", base.Add(time.Minute+time.Millisecond))
			require.NoError(t, err)
			assert.True(t, after.Allowed)
			assert.Equal(t, base.Add(2*time.Minute+time.Millisecond), after.Reset)
		})
	}
}

func TestLimiter_NamesShareStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	submit := New(store, 1, time.Minute, "form-submit")
	auth := New(store, 1, time.Minute, "auth")

	_, err := submit.Allow(ctx, "ip", base)
	require.NoError(t, err)
	res, err := auth.Allow(ctx, "ip", base)
	require.NoError(t, err)

	assert.True(t, res.Allowed)
	assert.Equal(t, 2, store.Len())
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration, time.Time) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func TestLimiter_StoreError(t *testing.T) {
	lim := New(failingStore{}, 1, time.Minute, "auth")

	_, err := lim.Allow(context.Background(), "ip", base)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit auth")
}

func TestResult_RetryAfter(t *testing.T) {
	res := Result{Allowed: false, Reset: base.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, res.RetryAfter(base))
	assert.Equal(t, time.Duration(0), Result{Allowed: true, Reset: base.Add(time.Minute)}.RetryAfter(base))
	assert.Equal(t, time.Duration(0), res.RetryAfter(base.Add(2*time.Minute)))
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _, _ = store.Increment(ctx, "old", time.Minute, base)
	_, _, _ = store.Increment(ctx, "new", time.Minute, base.Add(time.Minute))

	removed := store.Sweep(base.Add(90 * time.Second))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_RunSweeperStopsOnCancel(t *testing.T) {
	store := NewMemoryStore()
	_, _, _ = store.Increment(context.Background(), "k", time.Millisecond, base)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, time.Millisecond, func() time.Time { return base.Add(time.Hour) })
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore()
	lim := New(store, 50, time.Minute, "race")
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := lim.Allow(ctx, "ip", base)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestRedisStore_KeyExpiresWithWindow(t *testing.T) {
	store, mr := newRedisStore(t)

	_, _, err := store.Increment(context.Background(), "auth:ip", time.Minute, base)
	require.NoError(t, err)

	require.True(t, mr.Exists("ratelimit:auth:ip"))
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:auth:ip"))

	mr.FastForward(time.Minute + time.Second)
	assert.False(t, mr.Exists("ratelimit:auth:ip"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	_, _, err := store.Increment(context.Background(), "k", time.Minute, base)

	assert.Error(t, err)
}
