package leasestore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	owner    string
	expireAt time.Time
}

// Memory is an in-process Store used in tests and single-node dev mode.
// Expired entries are treated as absent and purged lazily on access.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
	}
}

func (s *Memory) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && time.Now().Before(entry.expireAt) {
		return false, nil
	}

	s.entries[key] = memoryEntry{
		owner:    owner,
		expireAt: time.Now().Add(ttl),
	}
	return true, nil
}

func (s *Memory) Release(ctx context.Context, key, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.owner == owner {
		delete(s.entries, key)
	}
	return nil
}

func (s *Memory) ReleaseAny(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *Memory) PeekMany(ctx context.Context, keys []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	owners := make(map[string]string, len(keys))
	for _, key := range keys {
		entry, ok := s.entries[key]
		if !ok {
			continue
		}
		if now.After(entry.expireAt) {
			delete(s.entries, key)
			continue
		}
		owners[key] = entry.owner
	}

	return owners, nil
}

func (s *Memory) Close() error {
	return nil
}
