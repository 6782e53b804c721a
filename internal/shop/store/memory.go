package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"shopdir/internal/shop/models"
	"shopdir/pkg/platform/sentinel"
)

// InMemoryStore keeps shops in a map. It favors clarity over performance and
// doubles as the test fake for services and handlers.
type InMemoryStore struct {
	mu    sync.RWMutex
	shops map[uuid.UUID]*models.Shop
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{shops: make(map[uuid.UUID]*models.Shop)}
}

func (s *InMemoryStore) Create(_ context.Context, shop *models.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shops[shop.ID]; exists {
		return sentinel.ErrConflict
	}
	s.shops[shop.ID] = shop.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if shop, ok := s.shops[id]; ok {
		return shop.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// Update writes step evidence. Like FinalizeIfPending it only applies while
// the stored record is still pending, so a stale snapshot cannot overwrite a
// terminal decision.
func (s *InMemoryStore) Update(_ context.Context, shop *models.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.shops[shop.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Verification.Status != models.StatusPending {
		return sentinel.ErrInvalidState
	}
	s.shops[shop.ID] = shop.Clone()
	return nil
}

func (s *InMemoryStore) FinalizeIfPending(_ context.Context, shop *models.Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.shops[shop.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Verification.Status != models.StatusPending {
		return sentinel.ErrInvalidState
	}
	s.shops[shop.ID] = shop.Clone()
	return nil
}
