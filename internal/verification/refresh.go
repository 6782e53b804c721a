package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
)

// Refresh re-runs every verification step for which stored inputs exist,
// using the previously submitted location, the re-hosted license document,
// and the re-hosted photo. Steps run concurrently against a snapshot of the
// aggregate and their results are applied in a single write, so a refresh
// never interleaves half-updated flags.
func (s *Service) Refresh(ctx context.Context, shopID uuid.UUID) (*models.VerificationRecord, error) {
	start := time.Now()
	shop, err := s.loadPending(ctx, shopID)
	if err != nil {
		return nil, err
	}

	var (
		locEv   *locationEvidence
		licEv   *licenseEvidence
		photoEv *photoEvidence
	)

	g, gctx := errgroup.WithContext(ctx)
	if shop.Verification.SubmittedLocation != nil {
		point := *shop.Verification.SubmittedLocation
		g.Go(func() error {
			ev := s.evaluateLocation(gctx, shop, point)
			locEv = &ev
			return nil
		})
	}
	if shop.Verification.License != nil && shop.Verification.License.DocumentURL != "" {
		docURL := shop.Verification.License.DocumentURL
		g.Go(func() error {
			ev := s.evaluateLicense(gctx, shop, docURL, false)
			licEv = &ev
			return nil
		})
	}
	if shop.Verification.PhotoProof != nil && shop.Verification.PhotoProof.URL != "" {
		photoURL := shop.Verification.PhotoProof.URL
		g.Go(func() error {
			ev := s.evaluatePhoto(gctx, shop, photoURL, false)
			photoEv = &ev
			return nil
		})
	}
	// Evaluations degrade internally and never return errors; Wait only
	// fences the goroutines.
	_ = g.Wait()

	if locEv != nil {
		applyLocation(shop, *locEv)
	}
	if licEv != nil {
		applyLicense(shop, *licEv)
	}
	if photoEv != nil {
		applyPhoto(shop, *photoEv)
	}

	if err := s.persist(ctx, shop); err != nil {
		return nil, err
	}

	s.metrics.ObserveStep("refresh", time.Since(start))
	s.logAudit(ctx, shopID, audit.ActionVerificationRefreshed, "")
	if s.logger != nil {
		s.logger.InfoContext(ctx, "verification refreshed",
			"shop_id", shopID,
			"location_rerun", locEv != nil,
			"license_rerun", licEv != nil,
			"photo_rerun", photoEv != nil,
		)
	}

	record := shop.Verification
	return &record, nil
}
