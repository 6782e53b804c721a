package models

// VerificationStatus tracks where a shop sits in the review lifecycle.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// CanTransitionTo reports whether the lifecycle allows moving to the target
// status. Pending is the only non-terminal state.
func (s VerificationStatus) CanTransitionTo(target VerificationStatus) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

// Terminal reports whether the status admits no further transitions.
func (s VerificationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}
