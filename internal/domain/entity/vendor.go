package entity

import (
	"math"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// ClosedDay marks a day without opening hours
const ClosedDay = "closed"

// DayHours is the opening window of one weekday, "HH:MM" or ClosedDay
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours maps lowercase weekday names to opening hours
type OperatingHours map[string]DayHours

// DefaultOperatingHours returns weekdays 09:00-17:00 and a closed weekend
func DefaultOperatingHours() OperatingHours {
	weekday := DayHours{Open: "09:00", Close: "17:00"}
	weekend := DayHours{Open: ClosedDay, Close: ClosedDay}
	return OperatingHours{
		"monday":    weekday,
		"tuesday":   weekday,
		"wednesday": weekday,
		"thursday":  weekday,
		"friday":    weekday,
		"saturday":  weekend,
		"sunday":    weekend,
	}
}

// Vendor is the business profile attached to a vendor account
type Vendor struct {
	ID             string
	UserID         string
	BusinessName   string
	Description    string
	Address        string
	City           string
	PostalCode     string
	Phone          string
	Email          string
	Verified       bool
	Banned         bool
	Rating         float64
	RatingCount    int64
	OperatingHours OperatingHours
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewVendor creates an unverified vendor profile with default hours.
// The business name may be filled in later.
func NewVendor(id, userID, businessName string, timeProvider coreport.TimeProvider) (*Vendor, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	now := timeProvider.Now()
	return &Vendor{
		ID:             id,
		UserID:         userID,
		BusinessName:   businessName,
		OperatingHours: DefaultOperatingHours(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AddRating folds a new rating into the running average, rounded to one decimal
func (v *Vendor) AddRating(rating int, timeProvider coreport.TimeProvider) {
	total := v.Rating*float64(v.RatingCount) + float64(rating)
	v.RatingCount++
	v.Rating = math.Round(total/float64(v.RatingCount)*10) / 10
	v.UpdatedAt = timeProvider.Now()
}

// Verify marks the vendor as verified by an admin
func (v *Vendor) Verify(timeProvider coreport.TimeProvider) {
	v.Verified = true
	v.UpdatedAt = timeProvider.Now()
}

// IsManagedBy reports whether actor may change this vendor's data
func (v *Vendor) IsManagedBy(actor *User) bool {
	return actor.IsAdmin() || actor.ID == v.UserID
}
