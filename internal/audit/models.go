package audit

import "time"

// Action names for directory and verification events.
const (
	ActionShopRegistered        = "shop_registered"
	ActionLocationSubmitted     = "location_submitted"
	ActionLicenseVerified       = "license_verified"
	ActionPhotoSubmitted        = "photo_submitted"
	ActionVerificationRefreshed = "verification_refreshed"
	ActionShopApproved          = "shop_approved"
	ActionShopRejected          = "shop_rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ShopID    string    `json:"shop_id"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}
