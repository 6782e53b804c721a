// Package store persists shop aggregates. Implementations return
// pkg/platform/sentinel errors for infrastructure facts; services translate
// them into domain errors.
package store

import (
	"context"

	"github.com/google/uuid"

	"shopdir/internal/shop/models"
)

// Store is the persistence contract for shop aggregates. Step writes are
// last-writer-wins among themselves (Update) but only apply while the row is
// still pending; the lifecycle finalize is the one compare-and-set write so
// a concurrent second approval observes the non-pending row and fails
// instead of double-applying the location lock.
type Store interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)

	// Update writes the aggregate only while the persisted verification
	// status is still pending. Returns sentinel.ErrInvalidState once a
	// decision has been finalized.
	Update(ctx context.Context, shop *models.Shop) error

	// FinalizeIfPending writes the transitioned aggregate only when the
	// persisted verification status is still pending. Returns
	// sentinel.ErrInvalidState when another caller finalized first.
	FinalizeIfPending(ctx context.Context, shop *models.Shop) error
}
