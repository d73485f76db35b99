package core

// IDGenerator produces identifiers for new records
type IDGenerator interface {
	// NewID returns a new globally unique identifier
	NewID() string
	// NewReferralCode returns a fresh candidate referral code.
	// Uniqueness is checked by the caller against the store.
	NewReferralCode() string
}
