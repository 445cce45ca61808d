package session

import (
	"sync"
	"time"
)

// item is a stored session with expiration
type item struct {
	value      interface{}
	expiration int64
}

// Store is an in-memory TTL store for wizard sessions. Each session is owned
// by a single wizard flow for the lifetime of that page view.
type Store struct {
	items map[string]item
	mu    sync.RWMutex
}

// New creates a new store instance
func New() *Store {
	store := &Store{
		items: make(map[string]item),
	}

	// Start a background goroutine to clean expired sessions
	go func() {
		for {
			time.Sleep(time.Minute)
			store.DeleteExpired()
		}
	}()

	return store
}

// Set adds a session to the store with the given expiration duration
func (s *Store) Set(key string, value interface{}, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = item{
		value:      value,
		expiration: time.Now().Add(duration).UnixNano(),
	}
}

// Get retrieves a session from the store
// Returns the session and a boolean indicating if it was found
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, found := s.items[key]
	if !found {
		return nil, false
	}

	if time.Now().UnixNano() > it.expiration {
		return nil, false
	}

	return it.value, true
}

// Delete removes a session from the store
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
}

// DeleteExpired removes all expired sessions from the store
func (s *Store) DeleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range s.items {
		if now > it.expiration {
			delete(s.items, key)
		}
	}
}
