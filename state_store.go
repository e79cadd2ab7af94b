package behaviorsdk

import (
	"strconv"
	"sync"
)

// ──────────────────────────────────────────────
// StateStore — pluggable backend for turn metadata
// ──────────────────────────────────────────────

// StateStore is the storage backend for ephemeral per-conversation turn
// metadata (turn counters, last-message timestamps). It is not a message
// or persona store; that persistence belongs to the calling service.
//
// All data is organized by namespace (typically "{persona_id}:{user_id}")
// and key.
type StateStore interface {
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	Incr(namespace, key string) (int, error)
}

// InMemoryStateStore is a thread-safe in-memory StateStore for development
// and tests. Data is lost on restart.
type InMemoryStateStore struct {
	mu sync.RWMutex
	kv map[string]map[string]string
}

// NewInMemoryStateStore creates a new in-memory store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{kv: make(map[string]map[string]string)}
}

func (s *InMemoryStateStore) Get(namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.kv[namespace]; ok {
		return ns[key], nil
	}
	return "", nil
}

func (s *InMemoryStateStore) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[namespace] == nil {
		s.kv[namespace] = make(map[string]string)
	}
	s.kv[namespace][key] = value
	return nil
}

func (s *InMemoryStateStore) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.kv[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *InMemoryStateStore) Incr(namespace, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[namespace] == nil {
		s.kv[namespace] = make(map[string]string)
	}
	n, _ := strconv.Atoi(s.kv[namespace][key])
	n++
	s.kv[namespace][key] = strconv.Itoa(n)
	return n, nil
}
