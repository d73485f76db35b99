package appointment

import (
	"context"
	"strings"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/domain/usecase/ledger"
)

// CreateAppointment books a service. When CoinsToUse is positive the
// customer's wallet is debited in the same transaction that inserts the
// appointment; insufficient funds abort both.
func (s *Service) CreateAppointment(ctx context.Context, req usecase.CreateAppointmentRequest) (*entity.Appointment, error) {
	if req.CoinsToUse < 0 {
		return nil, errs.ErrInvalidAmount
	}

	var appointment *entity.Appointment
	err := s.ledger.Atomically(ctx, func(txCtx context.Context) error {
		uow := s.ledger.UnitOfWork()

		customer, err := uow.GetUserRepository(txCtx).GetForUpdate(txCtx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer.Banned {
			return errs.ErrUserBanned
		}

		service, err := uow.GetServiceRepository(txCtx).GetByID(txCtx, req.ServiceID)
		if err != nil {
			return err
		}
		if service.VendorID != req.VendorID || !service.Available {
			return errs.ErrValidation
		}

		vendor, err := uow.GetVendorRepository(txCtx).GetByID(txCtx, req.VendorID)
		if err != nil {
			return err
		}
		if vendor.Banned {
			return errs.ErrForbidden
		}

		appt, err := entity.NewAppointment(
			s.idGen.NewID(),
			customer.ID,
			vendor.ID,
			service.ID,
			req.Date,
			req.CoinsToUse,
			service.Price,
			req.Notes,
			customerDetails(customer),
			s.timeProvider,
		)
		if err != nil {
			return err
		}

		if req.CoinsToUse > 0 {
			if _, err := s.ledger.ApplyTo(txCtx, customer, -req.CoinsToUse, ledger.DescriptionBookingDiscount); err != nil {
				return err
			}
		}

		if err := uow.GetAppointmentRepository(txCtx).Create(txCtx, appt); err != nil {
			return err
		}
		appointment = appt
		return nil
	})
	if err != nil {
		s.logger.Warn("Appointment booking failed", map[string]any{
			"customer_id":  req.CustomerID,
			"service_id":   req.ServiceID,
			"coins_to_use": req.CoinsToUse,
			"error":        err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Appointment booked", map[string]any{
		"appointment_id": appointment.ID,
		"customer_id":    appointment.CustomerID,
		"coins_used":     appointment.CoinsUsed,
	})
	return appointment, nil
}

func customerDetails(u *entity.User) entity.CustomerDetails {
	return entity.CustomerDetails{
		Name:         strings.TrimSpace(u.FirstName + " " + u.LastName),
		Email:        u.Email,
		Phone:        u.Phone,
		LicensePlate: u.LicensePlate,
	}
}
