package handler

import (
	"time"

	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
)

// ShopResponse is the HTTP representation of a shop listing. Verification
// evidence stays on the admin surface; this view carries only the outcome.
type ShopResponse struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsLive        bool      `json:"is_live"`

	VerificationStatus string       `json:"verification_status"`
	VerifiedBadge      bool         `json:"verified_badge"`
	Flags              models.Flags `json:"flags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromShop maps a shop aggregate to its HTTP representation.
func FromShop(shop *models.Shop) ShopResponse {
	return ShopResponse{
		ID:                 shop.ID,
		OwnerID:            shop.OwnerID,
		Name:               shop.Name,
		Address:            shop.Address,
		LicenseNumber:      shop.LicenseNumber,
		Phone:              shop.Phone,
		IsActive:           shop.IsActive,
		IsLive:             shop.IsLive,
		VerificationStatus: string(shop.Verification.Status),
		VerifiedBadge:      shop.Verification.VerifiedBadge,
		Flags:              shop.Verification.Flags,
		CreatedAt:          shop.CreatedAt,
		UpdatedAt:          shop.UpdatedAt,
	}
}

// AuditEventResponse is the HTTP representation of one audit log entry. The
// shop ID is implied by the request path.
type AuditEventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}

// FromAuditEvents maps audit events to their HTTP representation.
func FromAuditEvents(events []audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, AuditEventResponse{
			Timestamp: event.Timestamp,
			Actor:     event.Actor,
			Action:    event.Action,
			Detail:    event.Detail,
		})
	}
	return out
}
