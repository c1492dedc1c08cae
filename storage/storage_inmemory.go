package storage

import "sync"

// InMemoryStorage is a thread-safe in-memory implementation of Storage,
// used in tests and short-lived sessions that should leave nothing behind.
type InMemoryStorage struct {
	mu       sync.RWMutex
	token    string
	identity []byte
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{}
}

func (s *InMemoryStorage) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *InMemoryStorage) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *InMemoryStorage) Identity() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, nil
	}
	// Copy to prevent external modification
	out := make([]byte, len(s.identity))
	copy(out, s.identity)
	return out, nil
}

func (s *InMemoryStorage) SetIdentity(identity []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = append([]byte(nil), identity...)
	return nil
}

func (s *InMemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
	return nil
}

var _ Storage = (*InMemoryStorage)(nil)
