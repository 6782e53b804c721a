package audit

import (
	"context"
	"sync"
)

// Store persists audit events append-only. Swap with concrete storage
// without touching the services that emit.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByShop(ctx context.Context, shopID string) ([]Event, error)
}

// InMemoryStore keeps events in memory for tests and single-node setups.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByShop(_ context.Context, shopID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.ShopID == shopID {
			out = append(out, event)
		}
	}
	return out, nil
}
