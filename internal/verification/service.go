// Package verification implements the trust verification pipeline: the
// independent checks that cross-reference a merchant-submitted address
// against reverse-geocoded GPS coordinates, a machine-read business license,
// and storefront photo EXIF metadata. Each check writes advisory mismatch
// flags onto the shop aggregate; none of them gates the admin decision.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	"shopdir/internal/verification/metrics"
	"shopdir/internal/verification/ports"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/platform/sentinel"
	"shopdir/pkg/requestcontext"
)

const (
	// proximityThresholdMeters bounds how far apart two points may be and
	// still corroborate each other.
	proximityThresholdMeters = 100.0

	// addressScoreThreshold is the minimum similarity score treated as a
	// good textual address match.
	addressScoreThreshold = 60

	defaultProviderTimeout = 10 * time.Second
)

// ShopStore is the slice of shop persistence the pipeline needs.
type ShopStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
}

// AuditPublisher records verification actions for later review.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Providers bundles the external collaborators the pipeline consumes. Any
// of them may be nil; a missing provider behaves like a failing one and the
// affected signal degrades toward "unverified".
type Providers struct {
	Reverse ports.ReverseGeocoder
	Forward ports.ForwardGeocoder
	OCR     ports.TextExtractor
	Exif    ports.ExifReader
	Media   ports.MediaStore
}

// Service orchestrates the verification steps against the shop aggregate.
type Service struct {
	shops     ShopStore
	providers Providers

	logger          *slog.Logger
	metrics         *metrics.Metrics
	audit           AuditPublisher
	providerTimeout time.Duration
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

// WithProviderTimeout bounds each outbound provider call.
func WithProviderTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.providerTimeout = timeout
	}
}

// New constructs the verification service.
func New(shops ShopStore, providers Providers, opts ...Option) *Service {
	s := &Service{
		shops:           shops,
		providers:       providers,
		providerTimeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// providerCtx derives a bounded context for one outbound provider call.
func (s *Service) providerCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.providerTimeout)
}

// loadPending fetches the shop and verifies the caller may act on it and
// that it is still under review. Only the registered owner submits evidence;
// admin-authenticated requests bypass the owner match. Verification steps
// mutate the record field-by-field while the shop is pending; once an admin
// finalizes, the record is terminal.
func (s *Service) loadPending(ctx context.Context, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shop not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shop")
	}
	if !requestcontext.IsAdmin(ctx) && requestcontext.OwnerID(ctx) != shop.OwnerID {
		return nil, dErrors.New(dErrors.CodeForbidden, "shop belongs to a different owner")
	}
	if shop.Verification.Status != models.StatusPending {
		return nil, dErrors.New(dErrors.CodeInvariantViolation,
			"shop verification is already "+string(shop.Verification.Status))
	}
	return shop, nil
}

// Record returns the shop's current verification record for review,
// regardless of status.
func (s *Service) Record(ctx context.Context, shopID uuid.UUID) (*models.VerificationRecord, error) {
	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "shop not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shop")
	}
	record := shop.Verification
	return &record, nil
}

// persist writes the mutated aggregate. The store refuses the write when an
// admin decision landed after loadPending; other store failures are fatal
// for the request since the computed signals would otherwise be silently lost.
func (s *Service) persist(ctx context.Context, shop *models.Shop) error {
	shop.UpdatedAt = time.Now()
	if err := s.shops.Update(ctx, shop); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.New(dErrors.CodeInvariantViolation, "shop verification was already finalized")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist verification record")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, shopID uuid.UUID, action, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.Event{
		ShopID: shopID.String(),
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

func (s *Service) providerDegraded(ctx context.Context, provider string, shopID uuid.UUID, err error) {
	s.metrics.IncrementProviderFailure(provider)
	if s.logger != nil {
		s.logger.WarnContext(ctx, "provider call degraded",
			"provider", provider,
			"shop_id", shopID,
			"error", err,
		)
	}
}
