package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/textmatch"
)

// licenseEvidence is the outcome of one license document evaluation.
type licenseEvidence struct {
	documentURL      string
	rawText          string
	extractedNumber  *string
	extractedAddress *string
	processedAt      time.Time

	numberMatches bool
	addressScore  int
	docWithinArea bool
}

// mismatch is fail-closed: an unreadable document, a missing field, or a
// provider outage all leave the flag raised for the reviewing admin.
func (e licenseEvidence) mismatch() bool {
	addressCorroborated := e.addressScore >= addressScoreThreshold || e.docWithinArea
	return !e.numberMatches || !addressCorroborated
}

// evaluateLicense re-hosts the uploaded document, machine-reads it, and
// cross-checks the extracted license number and address against the
// registration. The address is corroborated either textually or by
// geocoding it and measuring the distance to the submitted location.
func (s *Service) evaluateLicense(ctx context.Context, shop *models.Shop, documentURL string, rehost bool) licenseEvidence {
	ev := licenseEvidence{documentURL: documentURL, processedAt: time.Now()}

	if rehost && s.providers.Media != nil {
		callCtx, cancel := s.providerCtx(ctx)
		upload, err := s.providers.Media.UploadFromURL(callCtx, documentURL, "licenses")
		cancel()
		if err != nil {
			s.providerDegraded(ctx, "media", shop.ID, err)
		} else {
			ev.documentURL = upload.URL
		}
	}

	if s.providers.OCR != nil {
		callCtx, cancel := s.providerCtx(ctx)
		text, err := s.providers.OCR.ExtractText(callCtx, ev.documentURL)
		cancel()
		if err != nil {
			s.providerDegraded(ctx, "ocr", shop.ID, err)
		} else {
			ev.rawText = text
		}
	}

	ev.extractedNumber = extractLicenseNumber(ev.rawText)
	ev.extractedAddress = extractLicenseAddress(ev.rawText)

	if ev.extractedNumber != nil && shop.LicenseNumber != "" {
		ev.numberMatches = normalizeLicense(*ev.extractedNumber) == normalizeLicense(shop.LicenseNumber)
	}

	if ev.extractedAddress != nil {
		ev.addressScore = textmatch.Score(shop.Address, *ev.extractedAddress)

		if s.providers.Forward != nil && shop.Verification.SubmittedLocation != nil {
			callCtx, cancel := s.providerCtx(ctx)
			docPoint, err := s.providers.Forward.ForwardGeocode(callCtx, *ev.extractedAddress)
			cancel()
			if err != nil {
				s.providerDegraded(ctx, "forward_geocode", shop.ID, err)
			} else {
				dist := shop.Verification.SubmittedLocation.DistanceMeters(docPoint)
				ev.docWithinArea = dist <= proximityThresholdMeters
			}
		}
	}

	return ev
}

func applyLicense(shop *models.Shop, ev licenseEvidence) {
	shop.Verification.License = &models.LicenseExtraction{
		DocumentURL:      ev.documentURL,
		ExtractedNumber:  ev.extractedNumber,
		ExtractedAddress: ev.extractedAddress,
		RawText:          ev.rawText,
		ProcessedAt:      ev.processedAt,
	}
	shop.Verification.Flags.LicenceMismatch = ev.mismatch()
}

// VerifyLicense machine-reads the shop's business license document and
// records the extraction alongside the licence mismatch flag.
func (s *Service) VerifyLicense(ctx context.Context, shopID uuid.UUID, documentURL string) (*models.VerificationRecord, error) {
	if documentURL == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "document URL is required")
	}

	start := time.Now()
	shop, err := s.loadPending(ctx, shopID)
	if err != nil {
		return nil, err
	}

	ev := s.evaluateLicense(ctx, shop, documentURL, true)
	applyLicense(shop, ev)

	if err := s.persist(ctx, shop); err != nil {
		return nil, err
	}

	s.metrics.ObserveStep("license", time.Since(start))
	s.metrics.IncrementOutcome("license", shop.Verification.Flags.LicenceMismatch)
	s.logAudit(ctx, shopID, audit.ActionLicenseVerified, ev.documentURL)
	if s.logger != nil {
		s.logger.InfoContext(ctx, "license check completed",
			"shop_id", shopID,
			"number_extracted", ev.extractedNumber != nil,
			"address_score", ev.addressScore,
			"flagged", ev.mismatch(),
		)
	}

	record := shop.Verification
	return &record, nil
}
