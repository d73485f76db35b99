package idgen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	"github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// UUIDGenerator issues random (version 4) UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID based ID generator
func NewUUIDGenerator() core.IDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewReferralCode returns the first eight hex digits of a fresh UUID, upper-cased
func (g *UUIDGenerator) NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:entity.ReferralCodeLength])
}
