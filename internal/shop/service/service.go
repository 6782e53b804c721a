// Package service implements the shop directory lifecycle: registration,
// retrieval, and the admin approve/reject decision that makes a listing
// publicly discoverable.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/platform/metrics"
	"shopdir/internal/shop/models"
	"shopdir/internal/shop/store"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/platform/sentinel"
)

// AuditPublisher records directory actions and serves them back to the
// admin review surface.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	List(ctx context.Context, shopID string) ([]audit.Event, error)
}

// Service owns shop lifecycle operations against the shop store.
type Service struct {
	store store.Store

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

// New constructs the shop service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries the merchant-entered registration fields.
type RegisterInput struct {
	OwnerID       string
	Name          string
	Address       string
	LicenseNumber string
	Phone         string
}

// Register creates a new pending shop owned by the calling merchant.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Shop, error) {
	shop, err := models.NewShop(uuid.New(), in.OwnerID, in.Name, in.Address, in.LicenseNumber, in.Phone, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, shop); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create shop")
	}

	s.metrics.IncrementShopsRegistered()
	s.logAudit(ctx, shop.ID, in.OwnerID, audit.ActionShopRegistered, shop.Name)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "shop registered",
			"shop_id", shop.ID,
			"owner_id", in.OwnerID,
		)
	}

	return shop, nil
}

// Get returns one shop by ID.
func (s *Service) Get(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.store.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shop not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shop")
	}
	return shop, nil
}

// AuditTrail returns the recorded actions for one shop, oldest first. A
// service wired without an audit publisher has no trail to serve.
func (s *Service) AuditTrail(ctx context.Context, shopID uuid.UUID) ([]audit.Event, error) {
	if _, err := s.Get(ctx, shopID); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return nil, nil
	}
	events, err := s.audit.List(ctx, shopID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

// Approve finalizes a pending shop as approved: the listing goes live, the
// verified badge is granted, and the submitted location is locked in. The
// store write is compare-and-set on the pending status, so a concurrent
// second decision fails instead of double-applying.
func (s *Service) Approve(ctx context.Context, shopID uuid.UUID, actor, notes string) (*models.Shop, error) {
	return s.finalize(ctx, shopID, actor, notes, audit.ActionShopApproved, "approved",
		func(shop *models.Shop, now time.Time) { shop.ApplyApproval(notes, now) })
}

// Reject finalizes a pending shop as rejected, recording the reviewer's
// notes. The listing never goes live.
func (s *Service) Reject(ctx context.Context, shopID uuid.UUID, actor, notes string) (*models.Shop, error) {
	return s.finalize(ctx, shopID, actor, notes, audit.ActionShopRejected, "rejected",
		func(shop *models.Shop, now time.Time) { shop.ApplyRejection(notes, now) })
}

func (s *Service) finalize(ctx context.Context, shopID uuid.UUID, actor, notes, action, outcome string,
	apply func(*models.Shop, time.Time)) (*models.Shop, error) {

	shop, err := s.store.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shop not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shop")
	}

	if err := shop.CanFinalize(); err != nil {
		return nil, err
	}
	apply(shop, time.Now())

	if err := s.store.FinalizeIfPending(ctx, shop); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "shop verification was already finalized")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "shop not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to finalize shop")
		}
	}

	s.metrics.IncrementShopsFinalized(outcome)
	s.logAudit(ctx, shopID, actor, action, notes)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "shop finalized",
			"shop_id", shopID,
			"outcome", outcome,
			"actor", actor,
		)
	}

	return shop, nil
}

func (s *Service) logAudit(ctx context.Context, shopID uuid.UUID, actor, action, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.Event{
		ShopID: shopID.String(),
		Actor:  actor,
		Action: action,
		Detail: detail,
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"shop_id", shopID,
			"action", action,
			"error", err,
		)
	}
}
