package persistence

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// AppointmentRepository stores bookings
type AppointmentRepository interface {
	// Create inserts a new appointment
	Create(ctx context.Context, appointment *entity.Appointment) error

	// GetByID retrieves an appointment
	//
	// Possible errors:
	// - ErrAppointmentNotFound: If the appointment doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)

	// GetForUpdate retrieves an appointment and locks it for the rest of the
	// transaction, so the stored previous status can't change underneath
	GetForUpdate(ctx context.Context, id string) (*entity.Appointment, error)

	// Update persists status, reward flag, notes and feedback
	Update(ctx context.Context, appointment *entity.Appointment) error
}

// ServiceRepository stores vendor services
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error

	// GetByID retrieves a service
	//
	// Possible errors:
	// - ErrServiceNotFound: If the service doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Service, error)

	ListByVendor(ctx context.Context, vendorID string) ([]entity.Service, error)
}

// VendorRepository stores vendor profiles, one per vendor user
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error

	// GetByID retrieves a vendor by its own ID
	//
	// Possible errors:
	// - ErrVendorNotFound: If the vendor doesn't exist
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)

	// GetByUserID retrieves the vendor profile owned by a user
	//
	// Possible errors:
	// - ErrVendorNotFound: If the user has no vendor profile
	GetByUserID(ctx context.Context, userID string) (*entity.Vendor, error)

	// GetForUpdate retrieves a vendor and locks it for the rest of the transaction
	GetForUpdate(ctx context.Context, id string) (*entity.Vendor, error)

	Update(ctx context.Context, vendor *entity.Vendor) error
}

// CategoryRepository stores service categories
type CategoryRepository interface {
	// Create inserts a category
	//
	// Possible errors:
	// - ErrDuplicateCategory: If the vendor already has a category with that name
	Create(ctx context.Context, category *entity.ServiceCategory) error

	// ExistsByName checks whether the vendor has a category with the given name
	ExistsByName(ctx context.Context, vendorID, name string) (bool, error)

	// ListByVendor returns the vendor's categories sorted by Order
	ListByVendor(ctx context.Context, vendorID string) ([]entity.ServiceCategory, error)
}
