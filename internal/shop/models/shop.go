package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
)

// Shop is the aggregate root for a merchant storefront listing.
//
// Invariants:
//   - Name and Address are non-empty; Name is at most 128 characters
//   - Verification.Status transitions pending -> {approved, rejected} only,
//     never reversed
//   - Verification.LocationLock is written exactly once, on the
//     pending -> approved transition, and never overwritten
//   - Verification flags are derived by the verification steps from their
//     latest inputs, never hand-edited
//
// A shop becomes publicly discoverable (IsLive) only through admin approval.
// The verification flags are advisory inputs to that decision: any single
// signal (stripped EXIF, OCR noise, a recent relocation) can false-positive,
// so no flag gates the transition automatically.
type Shop struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsLive        bool      `json:"is_live"`

	Verification VerificationRecord `json:"verification"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VerificationRecord aggregates the per-step trust signals for one shop.
// Sub-records are nil until their step has run at least once.
type VerificationRecord struct {
	Status VerificationStatus `json:"status"`

	SubmittedLocation      *geo.Point `json:"submitted_location,omitempty"`
	ReverseGeocodedAddress string     `json:"reverse_geocoded_address,omitempty"`
	AddressMatchScore      int        `json:"address_match_score"`
	LocationVerified       bool       `json:"location_verified"`

	License    *LicenseExtraction `json:"license,omitempty"`
	PhotoProof *PhotoProof        `json:"photo_proof,omitempty"`

	Flags Flags `json:"flags"`

	VerifiedBadge bool       `json:"verified_badge"`
	LocationLock  *geo.Point `json:"location_lock,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// LicenseExtraction holds what the license document check machine-read.
// DocumentURL is kept so a verification refresh can re-run OCR against the
// same upload.
type LicenseExtraction struct {
	DocumentURL      string    `json:"document_url"`
	ExtractedNumber  *string   `json:"extracted_number"`
	ExtractedAddress *string   `json:"extracted_address"`
	RawText          string    `json:"raw_text"`
	ProcessedAt      time.Time `json:"processed_at"`
}

// PhotoProof holds the storefront photo reference and its EXIF coordinates.
type PhotoProof struct {
	URL     string   `json:"url"`
	ExifLat *float64 `json:"exif_lat"`
	ExifLon *float64 `json:"exif_lon"`
}

// Flags are the advisory mismatch signals surfaced to the reviewing admin.
type Flags struct {
	AddressMismatch bool `json:"address_mismatch"`
	LicenceMismatch bool `json:"licence_mismatch"`
	ExifMismatch    bool `json:"exif_mismatch"`
}

// NewShop constructs a pending shop, validating registration invariants.
func NewShop(id uuid.UUID, ownerID, name, address, licenseNumber, phone string, now time.Time) (*Shop, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "shop name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "shop name must be 128 characters or less")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "shop address cannot be empty")
	}
	return &Shop{
		ID:            id,
		OwnerID:       ownerID,
		Name:          name,
		Address:       address,
		LicenseNumber: strings.TrimSpace(licenseNumber),
		Phone:         strings.TrimSpace(phone),
		Verification:  VerificationRecord{Status: StatusPending},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanFinalize checks that the shop is still pending review. Returns an error
// otherwise. Use with ApplyApproval/ApplyRejection inside the store's
// compare-and-set write.
func (s *Shop) CanFinalize() error {
	if s.Verification.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"shop verification is already "+string(s.Verification.Status))
	}
	return nil
}

// ApplyApproval transitions the shop to approved: activates the listing,
// grants the verified badge, and takes the one-time location lock when a
// submitted location exists. Call CanFinalize first.
func (s *Shop) ApplyApproval(notes string, now time.Time) {
	s.Verification.Status = StatusApproved
	s.IsActive = true
	s.IsLive = true
	s.Verification.VerifiedBadge = true
	s.Verification.Notes = notes
	s.Verification.ReviewedAt = &now
	if s.Verification.SubmittedLocation != nil && s.Verification.LocationLock == nil {
		lock := *s.Verification.SubmittedLocation
		s.Verification.LocationLock = &lock
	}
	s.UpdatedAt = now
}

// Approve validates and applies approval in one call.
func (s *Shop) Approve(notes string, now time.Time) error {
	if err := s.CanFinalize(); err != nil {
		return err
	}
	s.ApplyApproval(notes, now)
	return nil
}

// ApplyRejection transitions the shop to rejected. Records notes only: no
// activation, no badge, no location lock. Call CanFinalize first.
func (s *Shop) ApplyRejection(notes string, now time.Time) {
	s.Verification.Status = StatusRejected
	s.Verification.Notes = notes
	s.Verification.ReviewedAt = &now
	s.UpdatedAt = now
}

// Reject validates and applies rejection in one call.
func (s *Shop) Reject(notes string, now time.Time) error {
	if err := s.CanFinalize(); err != nil {
		return err
	}
	s.ApplyRejection(notes, now)
	return nil
}
