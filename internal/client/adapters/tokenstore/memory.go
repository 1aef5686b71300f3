// Package tokenstore содержит реализации хранилища пары токенов.
package tokenstore

import (
	"context"
	"sync"

	"aitsclient/internal/client/domain/entities"
	"aitsclient/internal/client/ports/store"
)

// MemoryStore хранит пару токенов в памяти процесса.
type MemoryStore struct {
	mu   sync.RWMutex
	pair entities.CredentialPair
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() store.TokenStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (*entities.CredentialPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.pair.IsComplete() {
		return nil, nil
	}
	pair := s.pair
	return &pair, nil
}

func (s *MemoryStore) Set(_ context.Context, pair *entities.CredentialPair) error {
	if !pair.IsComplete() {
		return ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = *pair
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = entities.CredentialPair{}
	return nil
}
