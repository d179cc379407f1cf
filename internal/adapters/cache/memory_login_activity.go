package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryLoginActivityStore is the single-process fallback used when no Redis
// URL is configured. State is lost on restart, which is acceptable for an
// advisory signal.
type MemoryLoginActivityStore struct {
	mu       sync.Mutex
	window   time.Duration
	failures map[string][]time.Time
}

func NewMemoryLoginActivityStore(window time.Duration) *MemoryLoginActivityStore {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &MemoryLoginActivityStore{
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (s *MemoryLoginActivityStore) RecordFailure(_ context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.prune(key, at.Add(-s.window))
	s.failures[key] = append(kept, at)
	return nil
}

func (s *MemoryLoginActivityStore) FailuresSince(_ context.Context, key string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, at := range s.failures[key] {
		if !at.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryLoginActivityStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
	return nil
}

// prune drops entries older than the cutoff; caller holds the lock.
func (s *MemoryLoginActivityStore) prune(key string, cutoff time.Time) []time.Time {
	kept := s.failures[key][:0]
	for _, at := range s.failures[key] {
		if !at.Before(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(s.failures, key)
		return nil
	}
	return kept
}
