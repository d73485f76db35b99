package entity

import (
	"strings"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// Service is a bookable offering of a vendor
type Service struct {
	ID              string
	VendorID        string
	CategoryID      string
	Name            string
	Description     string
	Price           int64 // cents
	DurationMinutes int
	Available       bool
	CoinReward      int64 // coins credited to the customer on completion
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewService validates and creates an available service
func NewService(
	id, vendorID, categoryID, name, description string,
	price int64,
	durationMinutes int,
	coinReward int64,
	timeProvider coreport.TimeProvider,
) (*Service, error) {
	if vendorID == "" || strings.TrimSpace(name) == "" {
		return nil, errs.ErrValidation
	}
	if price < 0 || coinReward < 0 || durationMinutes < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Service{
		ID:              id,
		VendorID:        vendorID,
		CategoryID:      categoryID,
		Name:            name,
		Description:     description,
		Price:           price,
		DurationMinutes: durationMinutes,
		Available:       true,
		CoinReward:      coinReward,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// HasReward reports whether completing this service earns coins
func (s *Service) HasReward() bool {
	return s.CoinReward > 0
}
