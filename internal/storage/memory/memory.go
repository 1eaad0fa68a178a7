package memory

import (
	"context"
	"sync"

	"budget/internal/storage"
)

// Store keeps documents in process memory. Nothing survives a restart.
type Store struct {
	mu   sync.Mutex
	docs map[string][]byte
}

var _ storage.KV = (*Store)(nil)

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Get returns a copy of the stored document.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), body...), true, nil
}

func (s *Store) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), body...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

// Len returns how many documents are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
