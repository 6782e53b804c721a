package handler

import (
	"time"

	"shopdir/internal/shop/models"
	"shopdir/pkg/geo"
)

// VerificationResponse is the HTTP representation of a verification record.
type VerificationResponse struct {
	Status string `json:"status"`

	SubmittedLocation      *geo.Point `json:"submitted_location,omitempty"`
	ReverseGeocodedAddress string     `json:"reverse_geocoded_address,omitempty"`
	AddressMatchScore      int        `json:"address_match_score"`
	LocationVerified       bool       `json:"location_verified"`

	License    *models.LicenseExtraction `json:"license,omitempty"`
	PhotoProof *models.PhotoProof        `json:"photo_proof,omitempty"`

	Flags models.Flags `json:"flags"`

	VerifiedBadge bool       `json:"verified_badge"`
	LocationLock  *geo.Point `json:"location_lock,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// FromRecord maps a verification record to its HTTP representation.
func FromRecord(record *models.VerificationRecord) VerificationResponse {
	return VerificationResponse{
		Status:                 string(record.Status),
		SubmittedLocation:      record.SubmittedLocation,
		ReverseGeocodedAddress: record.ReverseGeocodedAddress,
		AddressMatchScore:      record.AddressMatchScore,
		LocationVerified:       record.LocationVerified,
		License:                record.License,
		PhotoProof:             record.PhotoProof,
		Flags:                  record.Flags,
		VerifiedBadge:          record.VerifiedBadge,
		LocationLock:           record.LocationLock,
		Notes:                  record.Notes,
		ReviewedAt:             record.ReviewedAt,
	}
}
