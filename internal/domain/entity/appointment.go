package entity

import (
	"fmt"
	"time"

	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
)

// AppointmentStatus is a state of the booking state machine
type AppointmentStatus string

// Appointment statuses
const (
	StatusPending             AppointmentStatus = "pending"
	StatusConfirmed           AppointmentStatus = "confirmed"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelled           AppointmentStatus = "cancelled"
	StatusCancelledByCustomer AppointmentStatus = "cancelled_by_customer"
	StatusNoShow              AppointmentStatus = "no_show"
)

// RewardAction is the side effect a status change asks the ledger for
type RewardAction int

const (
	// RewardNone means the transition carries no coin reward
	RewardNone RewardAction = iota
	// RewardGrant means the customer should receive the service's coin reward
	RewardGrant
)

// New bookings start confirmed. Pending is accepted for stored records and
// must pass through confirmed before it can complete.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending: {
		StatusConfirmed, StatusCancelled, StatusCancelledByCustomer,
	},
	StatusConfirmed: {
		StatusCompleted, StatusCancelled, StatusCancelledByCustomer, StatusNoShow,
	},
}

// IsValidAppointmentStatus reports whether s names a known status
func IsValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusCancelledByCustomer, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// RewardActionFor decides, from the stored previous status and the requested one,
// whether the completion reward must be granted. Only entering completed grants it.
func RewardActionFor(old, next AppointmentStatus) RewardAction {
	if old != StatusCompleted && next == StatusCompleted {
		return RewardGrant
	}
	return RewardNone
}

// ValidateTransition checks a status change against the state machine.
// Re-saving the current status is always allowed.
func ValidateTransition(old, next AppointmentStatus) error {
	if !IsValidAppointmentStatus(string(next)) {
		return fmt.Errorf("%w: unknown status %q", errs.ErrInvalidStatusTransition, next)
	}
	if old == next {
		return nil
	}
	for _, s := range allowedTransitions[old] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, old, next)
}

// CustomerDetails is the contact snapshot taken at booking time
type CustomerDetails struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LicensePlate string `json:"licensePlate"`
}

// Feedback is the customer's rating of a completed appointment
type Feedback struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Appointment is a booking of one service at one vendor
type Appointment struct {
	ID              string
	CustomerID      string
	VendorID        string
	ServiceID       string
	Date            time.Time
	Status          AppointmentStatus
	CoinsUsed       int64
	TotalPrice      int64 // cents
	Notes           string
	RewardGranted   bool
	CustomerDetails CustomerDetails
	Feedback        *Feedback
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAppointment creates a confirmed booking
func NewAppointment(
	id, customerID, vendorID, serviceID string,
	date time.Time,
	coinsUsed, totalPrice int64,
	notes string,
	details CustomerDetails,
	timeProvider coreport.TimeProvider,
) (*Appointment, error) {
	if customerID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if vendorID == "" || serviceID == "" || date.IsZero() {
		return nil, errs.ErrValidation
	}
	if coinsUsed < 0 || totalPrice < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Appointment{
		ID:              id,
		CustomerID:      customerID,
		VendorID:        vendorID,
		ServiceID:       serviceID,
		Date:            date,
		Status:          StatusConfirmed,
		CoinsUsed:       coinsUsed,
		TotalPrice:      totalPrice,
		Notes:           notes,
		CustomerDetails: details,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransitionTo moves the appointment to next and returns the reward action
// the move implies. RewardGrant is downgraded to RewardNone once the reward
// has already been paid out.
func (a *Appointment) TransitionTo(next AppointmentStatus, timeProvider coreport.TimeProvider) (RewardAction, error) {
	if err := ValidateTransition(a.Status, next); err != nil {
		return RewardNone, err
	}

	action := RewardActionFor(a.Status, next)
	if a.RewardGranted {
		action = RewardNone
	}

	a.Status = next
	a.UpdatedAt = timeProvider.Now()
	return action, nil
}

// MarkRewardGranted flags the completion reward as paid
func (a *Appointment) MarkRewardGranted(timeProvider coreport.TimeProvider) {
	a.RewardGranted = true
	a.UpdatedAt = timeProvider.Now()
}

// AddFeedback attaches a rating to a completed appointment, once
func (a *Appointment) AddFeedback(rating int, comment string, timeProvider coreport.TimeProvider) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", errs.ErrValidation)
	}
	if a.Status != StatusCompleted || a.Feedback != nil {
		return errs.ErrFeedbackNotAllowed
	}

	now := timeProvider.Now()
	a.Feedback = &Feedback{Rating: rating, Comment: comment, CreatedAt: now}
	a.UpdatedAt = now
	return nil
}
