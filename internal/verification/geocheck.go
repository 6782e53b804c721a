package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
	"shopdir/pkg/textmatch"
)

// locationEvidence is the outcome of one location consistency evaluation.
type locationEvidence struct {
	submitted      geo.Point
	reverseAddress string
	matchScore     int
	withinArea     bool
}

func (e locationEvidence) verified() bool {
	return e.withinArea || e.matchScore >= addressScoreThreshold
}

// evaluateLocation reverse-geocodes the submitted coordinates, scores the
// resulting address text against the registered address, and, when the
// geocoder resolved its own coordinates for that address, measures the
// distance between the two points. Either proximity or a good textual match
// is enough; a geocoder failure degrades both signals toward unverified
// without failing the request.
func (s *Service) evaluateLocation(ctx context.Context, shop *models.Shop, point geo.Point) locationEvidence {
	ev := locationEvidence{submitted: point}

	if s.providers.Reverse != nil {
		callCtx, cancel := s.providerCtx(ctx)
		addr, err := s.providers.Reverse.ReverseGeocode(callCtx, point)
		cancel()
		if err != nil {
			s.providerDegraded(ctx, "reverse_geocode", shop.ID, err)
		} else {
			ev.reverseAddress = addr.Formatted
			ev.matchScore = textmatch.Score(shop.Address, addr.Formatted)
			if addr.Location != nil {
				ev.withinArea = point.DistanceMeters(*addr.Location) <= proximityThresholdMeters
			}
		}
	}

	return ev
}

func applyLocation(shop *models.Shop, ev locationEvidence) {
	loc := ev.submitted
	shop.Verification.SubmittedLocation = &loc
	shop.Verification.ReverseGeocodedAddress = ev.reverseAddress
	shop.Verification.AddressMatchScore = ev.matchScore
	shop.Verification.LocationVerified = ev.verified()
	shop.Verification.Flags.AddressMismatch = !ev.verified()
}

// SubmitLocation records the shop's GPS coordinates and runs the location
// consistency check. Re-submitting replaces the previous location evidence
// while the shop is still pending.
func (s *Service) SubmitLocation(ctx context.Context, shopID uuid.UUID, point geo.Point) (*models.VerificationRecord, error) {
	if !point.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "coordinates out of range")
	}

	start := time.Now()
	shop, err := s.loadPending(ctx, shopID)
	if err != nil {
		return nil, err
	}

	ev := s.evaluateLocation(ctx, shop, point)
	applyLocation(shop, ev)

	if err := s.persist(ctx, shop); err != nil {
		return nil, err
	}

	s.metrics.ObserveStep("location", time.Since(start))
	s.metrics.IncrementOutcome("location", shop.Verification.Flags.AddressMismatch)
	s.logAudit(ctx, shopID, audit.ActionLocationSubmitted, point.String())
	if s.logger != nil {
		s.logger.InfoContext(ctx, "location check completed",
			"shop_id", shopID,
			"match_score", ev.matchScore,
			"within_area", ev.withinArea,
			"verified", ev.verified(),
		)
	}

	record := shop.Verification
	return &record, nil
}
