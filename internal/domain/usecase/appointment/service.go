package appointment

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
)

var _ usecase.AppointmentUseCase = (*Service)(nil)

// Service manages bookings and the coin movements tied to them
type Service struct {
	ledger       *ledger.Ledger
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a new appointment service
func NewService(
	l *ledger.Ledger,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		ledger:       l,
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetAppointment returns the appointment to its customer, its vendor or an admin
func (s *Service) GetAppointment(ctx context.Context, actorID, appointmentID string) (*entity.Appointment, error) {
	uow := s.ledger.UnitOfWork()

	appt, err := uow.GetAppointmentRepository(ctx).GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.CustomerID == actorID {
		return appt, nil
	}

	actor, err := uow.GetUserRepository(ctx).GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	vendor, err := uow.GetVendorRepository(ctx).GetByID(ctx, appt.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsManagedBy(actor) {
		return nil, errs.ErrForbidden
	}
	return appt, nil
}

// grantReward credits the service's coin reward for a completed appointment
// inside txCtx and flags the appointment. A service without a reward still
// marks the appointment as settled.
func (s *Service) grantReward(txCtx context.Context, appt *entity.Appointment) (*entity.Transaction, error) {
	service, err := s.ledger.UnitOfWork().GetServiceRepository(txCtx).GetByID(txCtx, appt.ServiceID)
	if err != nil {
		return nil, err
	}

	var entry *entity.Transaction
	if service.HasReward() {
		entry, _, err = s.ledger.Apply(txCtx, appt.CustomerID, service.CoinReward, ledger.ServiceRewardDescription(service.Name))
		if err != nil {
			return nil, err
		}
	}

	appt.MarkRewardGranted(s.timeProvider)
	return entry, nil
}
