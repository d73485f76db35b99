package appointment

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
)

// AddFeedback stores the customer's rating and folds it into the vendor's
// average in one transaction
func (s *Service) AddFeedback(ctx context.Context, req usecase.FeedbackRequest) (*entity.Appointment, error) {
	var appointment *entity.Appointment
	err := s.ledger.Atomically(ctx, func(txCtx context.Context) error {
		uow := s.ledger.UnitOfWork()
		appointments := uow.GetAppointmentRepository(txCtx)

		appt, err := appointments.GetForUpdate(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if appt.CustomerID != req.CustomerID {
			return errs.ErrForbidden
		}
		if err := appt.AddFeedback(req.Rating, req.Comment, s.timeProvider); err != nil {
			return err
		}

		vendors := uow.GetVendorRepository(txCtx)
		vendor, err := vendors.GetForUpdate(txCtx, appt.VendorID)
		if err != nil {
			return err
		}
		vendor.AddRating(req.Rating, s.timeProvider)

		if err := appointments.Update(txCtx, appt); err != nil {
			return err
		}
		if err := vendors.Update(txCtx, vendor); err != nil {
			return err
		}
		appointment = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Feedback added", map[string]any{
		"appointment_id": req.AppointmentID,
		"rating":         req.Rating,
	})
	return appointment, nil
}
