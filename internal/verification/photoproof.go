package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
)

// photoEvidence is the outcome of one storefront photo evaluation.
type photoEvidence struct {
	photoURL string
	exif     *geo.Point

	mismatch bool
}

// evaluatePhoto re-hosts the storefront photo and compares its embedded GPS
// coordinates against the submitted location. Most phone photos have GPS
// stripped by messaging apps, so absence of EXIF data is never flagged;
// only a present coordinate that contradicts the submitted location is.
func (s *Service) evaluatePhoto(ctx context.Context, shop *models.Shop, photoURL string, rehost bool) photoEvidence {
	ev := photoEvidence{photoURL: photoURL}

	if rehost && s.providers.Media != nil {
		callCtx, cancel := s.providerCtx(ctx)
		upload, err := s.providers.Media.UploadFromURL(callCtx, photoURL, "photos")
		cancel()
		if err != nil {
			s.providerDegraded(ctx, "media", shop.ID, err)
		} else {
			ev.photoURL = upload.URL
		}
	}

	if s.providers.Exif != nil {
		callCtx, cancel := s.providerCtx(ctx)
		point, err := s.providers.Exif.ExtractGPS(callCtx, ev.photoURL)
		cancel()
		if err != nil {
			s.providerDegraded(ctx, "exif", shop.ID, err)
		} else {
			ev.exif = point
		}
	}

	if ev.exif != nil && shop.Verification.SubmittedLocation != nil {
		dist := ev.exif.DistanceMeters(*shop.Verification.SubmittedLocation)
		ev.mismatch = dist > proximityThresholdMeters
	}

	return ev
}

func applyPhoto(shop *models.Shop, ev photoEvidence) {
	proof := &models.PhotoProof{URL: ev.photoURL}
	if ev.exif != nil {
		lat, lon := ev.exif.Lat, ev.exif.Lon
		proof.ExifLat = &lat
		proof.ExifLon = &lon
	}
	shop.Verification.PhotoProof = proof
	shop.Verification.Flags.ExifMismatch = ev.mismatch
}

// SubmitPhotoProof records a storefront photo and runs the EXIF location
// check against the submitted coordinates.
func (s *Service) SubmitPhotoProof(ctx context.Context, shopID uuid.UUID, photoURL string) (*models.VerificationRecord, error) {
	if photoURL == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "photo URL is required")
	}

	start := time.Now()
	shop, err := s.loadPending(ctx, shopID)
	if err != nil {
		return nil, err
	}

	ev := s.evaluatePhoto(ctx, shop, photoURL, true)
	applyPhoto(shop, ev)

	if err := s.persist(ctx, shop); err != nil {
		return nil, err
	}

	s.metrics.ObserveStep("photo", time.Since(start))
	s.metrics.IncrementOutcome("photo", ev.mismatch)
	s.logAudit(ctx, shopID, audit.ActionPhotoSubmitted, ev.photoURL)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "photo proof recorded",
			"shop_id", shopID,
			"exif_present", ev.exif != nil,
			"flagged", ev.mismatch,
		)
	}

	record := shop.Verification
	return &record, nil
}
