package usecase

import (
	"context"
	"time"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// CreateVendorRequest carries a vendor profile
type CreateVendorRequest struct {
	UserID       string
	BusinessName string
	Description  string
	Address      string
	City         string
	PostalCode   string
	Phone        string
	Email        string
}

// CreateServiceRequest carries a new service
type CreateServiceRequest struct {
	ActorID         string
	VendorID        string
	CategoryID      string
	Name            string
	Description     string
	Price           int64
	DurationMinutes int
	CoinReward      int64
}

// CreateAppointmentRequest carries a booking
type CreateAppointmentRequest struct {
	CustomerID string
	VendorID   string
	ServiceID  string
	Date       time.Time
	CoinsToUse int64
	Notes      string
}

// UpdateStatusRequest carries a status change made by an actor
type UpdateStatusRequest struct {
	ActorID       string
	AppointmentID string
	Status        entity.AppointmentStatus
	Notes         *string
}

// StatusUpdateResult reports the appointment after a status change
// and the reward entry, if one was written
type StatusUpdateResult struct {
	Appointment *entity.Appointment
	Reward      *entity.Transaction
}

// FeedbackRequest carries a customer's rating
type FeedbackRequest struct {
	CustomerID    string
	AppointmentID string
	Rating        int
	Comment       string
}

// VendorUseCase manages vendor profiles, categories and services
type VendorUseCase interface {
	// CreateVendor creates or completes the user's single vendor profile
	// and makes sure the default categories exist
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*entity.Vendor, error)

	// GetVendor looks a vendor up by vendor ID or by owner user ID
	GetVendor(ctx context.Context, idOrUserID string) (*entity.Vendor, error)

	// EnsureDefaultCategories creates the missing default categories; safe to repeat
	EnsureDefaultCategories(ctx context.Context, actorID, vendorID string) ([]entity.ServiceCategory, error)

	ListCategories(ctx context.Context, vendorID string) ([]entity.ServiceCategory, error)

	// VerifyVendor marks a vendor as verified
	VerifyVendor(ctx context.Context, vendorID string) (*entity.Vendor, error)

	CreateService(ctx context.Context, req CreateServiceRequest) (*entity.Service, error)
	GetService(ctx context.Context, serviceID string) (*entity.Service, error)
	ListVendorServices(ctx context.Context, vendorID string) ([]entity.Service, error)
}

// AppointmentUseCase manages bookings and their coin effects
type AppointmentUseCase interface {
	// CreateAppointment books a service, debiting CoinsToUse in the same transaction
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*entity.Appointment, error)

	// GetAppointment returns the appointment to its customer, its vendor or an admin
	GetAppointment(ctx context.Context, actorID, appointmentID string) (*entity.Appointment, error)

	// UpdateStatus moves the appointment through the state machine and grants
	// the completion reward on entering completed
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*StatusUpdateResult, error)

	// CreditForCompletion grants the reward of a completed appointment if it
	// has not been granted yet. Returns a nil entry when nothing was credited.
	CreditForCompletion(ctx context.Context, actorID, appointmentID string) (*entity.Transaction, error)

	// AddFeedback rates a completed appointment and updates the vendor rating
	AddFeedback(ctx context.Context, req FeedbackRequest) (*entity.Appointment, error)
}
