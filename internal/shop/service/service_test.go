package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	"shopdir/internal/shop/store"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
)

// =============================================================================
// Shop Service Test Suite
// =============================================================================
// Justification for unit tests: the approve/reject decision carries the
// badge, go-live, and location lock side effects, and the already-finalized
// failure modes are awkward to provoke end-to-end.

type ShopServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	audits  *audit.InMemoryStore
	service *Service
}

func TestShopServiceSuite(t *testing.T) {
	suite.Run(t, new(ShopServiceSuite))
}

func (s *ShopServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.audits = audit.NewInMemoryStore()
	s.service = New(s.store, WithAuditPublisher(audit.NewPublisher(s.audits)))
}

func (s *ShopServiceSuite) register() *models.Shop {
	shop, err := s.service.Register(context.Background(), RegisterInput{
		OwnerID:       "owner-1",
		Name:          "Springfield Bakery",
		Address:       "12 Main Street, Springfield",
		LicenseNumber: "LIC123456",
	})
	s.Require().NoError(err)
	return shop
}

// =============================================================================
// Register Tests
// =============================================================================

func (s *ShopServiceSuite) TestRegister() {
	ctx := context.Background()

	s.Run("creates a pending shop", func() {
		shop := s.register()
		s.Equal(models.StatusPending, shop.Verification.Status)
		s.False(shop.IsLive)
		s.False(shop.Verification.VerifiedBadge)

		stored, err := s.store.FindByID(ctx, shop.ID)
		s.NoError(err)
		s.Equal(shop.Name, stored.Name)
	})

	s.Run("rejects an empty name", func() {
		_, err := s.service.Register(ctx, RegisterInput{
			OwnerID: "owner-1",
			Address: "12 Main Street, Springfield",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("emits an audit event", func() {
		shop := s.register()
		events, err := s.audits.ListByShop(ctx, shop.ID.String())
		s.NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionShopRegistered, events[0].Action)
		s.Equal("owner-1", events[0].Actor)
	})
}

// =============================================================================
// Get Tests
// =============================================================================

func (s *ShopServiceSuite) TestGet() {
	ctx := context.Background()

	s.Run("unknown shop returns not found", func() {
		_, err := s.service.Get(ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("returns the stored shop", func() {
		shop := s.register()
		got, err := s.service.Get(ctx, shop.ID)
		s.NoError(err)
		s.Equal(shop.ID, got.ID)
	})
}

// =============================================================================
// Approve / Reject Tests
// =============================================================================

func (s *ShopServiceSuite) TestApprove() {
	ctx := context.Background()

	s.Run("activates the listing and locks the location", func() {
		shop := s.register()
		loc := geo.Point{Lat: 41.0, Lon: 29.0}
		shop.Verification.SubmittedLocation = &loc
		s.Require().NoError(s.store.Update(ctx, shop))

		approved, err := s.service.Approve(ctx, shop.ID, "admin-1", "documents check out")
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, approved.Verification.Status)
		s.True(approved.IsActive)
		s.True(approved.IsLive)
		s.True(approved.Verification.VerifiedBadge)
		s.Require().NotNil(approved.Verification.LocationLock)
		s.Equal(loc, *approved.Verification.LocationLock)
		s.Equal("documents check out", approved.Verification.Notes)
		s.NotNil(approved.Verification.ReviewedAt)
	})

	s.Run("approval without a submitted location leaves the lock empty", func() {
		shop := s.register()
		approved, err := s.service.Approve(ctx, shop.ID, "admin-1", "")
		s.Require().NoError(err)
		s.Nil(approved.Verification.LocationLock)
	})

	s.Run("second decision on a finalized shop fails", func() {
		shop := s.register()
		_, err := s.service.Approve(ctx, shop.ID, "admin-1", "")
		s.Require().NoError(err)

		_, err = s.service.Approve(ctx, shop.ID, "admin-2", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		_, err = s.service.Reject(ctx, shop.ID, "admin-2", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("unknown shop returns not found", func() {
		_, err := s.service.Approve(ctx, uuid.New(), "admin-1", "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ShopServiceSuite) TestReject() {
	ctx := context.Background()

	s.Run("records notes without activating", func() {
		shop := s.register()
		rejected, err := s.service.Reject(ctx, shop.ID, "admin-1", "license is expired")
		s.Require().NoError(err)
		s.Equal(models.StatusRejected, rejected.Verification.Status)
		s.False(rejected.IsLive)
		s.False(rejected.Verification.VerifiedBadge)
		s.Nil(rejected.Verification.LocationLock)
		s.Equal("license is expired", rejected.Verification.Notes)
	})

	s.Run("emits an audit event with the reviewer", func() {
		shop := s.register()
		_, err := s.service.Reject(ctx, shop.ID, "admin-1", "license is expired")
		s.Require().NoError(err)

		events, err := s.audits.ListByShop(context.Background(), shop.ID.String())
		s.NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.ActionShopRejected, events[1].Action)
		s.Equal("admin-1", events[1].Actor)
	})
}

// =============================================================================
// AuditTrail Tests
// =============================================================================

func (s *ShopServiceSuite) TestAuditTrail() {
	ctx := context.Background()

	s.Run("returns the shop's actions oldest first", func() {
		shop := s.register()
		_, err := s.service.Approve(ctx, shop.ID, "admin-1", "verified in person")
		s.Require().NoError(err)

		events, err := s.service.AuditTrail(ctx, shop.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.ActionShopRegistered, events[0].Action)
		s.Equal(audit.ActionShopApproved, events[1].Action)
	})

	s.Run("unknown shop returns not found", func() {
		_, err := s.service.AuditTrail(ctx, uuid.New())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("no publisher means an empty trail", func() {
		bare := New(s.store)
		shop := s.register()

		events, err := bare.AuditTrail(ctx, shop.ID)
		s.NoError(err)
		s.Empty(events)
	})
}
