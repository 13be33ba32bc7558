package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
)

type entry struct {
	count int
	reset time.Time
}

// MemoryStore keeps counters in process memory
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

// Increment implements Store
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.reset.Before(now) {
		e = &entry{count: 0, reset: now.Add(window)}
		s.entries[key] = e
	}
	e.count++

	return e.count, e.reset, nil
}

// Sweep removes every window that reset before now and returns how many were removed
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.reset.Before(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunSweeper sweeps expired windows every interval until ctx is cancelled
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleaned := s.Sweep(now())
			if cleaned > 0 {
				logger.Default().Debug("rate limit sweep completed",
					logger.Int("cleaned", cleaned),
					logger.Int("remaining", s.Len()),
				)
			}
		}
	}
}
