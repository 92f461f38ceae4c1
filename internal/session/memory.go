package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps values in process. Values are stored encoded so callers get
// the same copy semantics as with RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]map[string]memoryEntry
}

// NewMemoryStore creates a store whose entries expire after ttl; zero keeps them
// until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(ctx context.Context, sessionID, key string, value any) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session value %s: %w", key, err)
	}

	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.entries[sessionID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		s.entries[sessionID] = bucket
	}
	bucket[key] = entry
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID, key string, dest any) error {
	return s.read(sessionID, key, dest, false)
}

func (s *MemoryStore) Take(ctx context.Context, sessionID, key string, dest any) error {
	return s.read(sessionID, key, dest, true)
}

func (s *MemoryStore) read(sessionID, key string, dest any, remove bool) error {
	if err := validate(sessionID, key); err != nil {
		return err
	}

	s.mu.Lock()
	entry, ok := s.entries[sessionID][key]
	expired := ok && !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
	if ok && (remove || expired) {
		delete(s.entries[sessionID], key)
	}
	s.mu.Unlock()

	if !ok || expired {
		return ErrNotFound
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("failed to decode session value %s: %w", key, err)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[sessionID], key)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
