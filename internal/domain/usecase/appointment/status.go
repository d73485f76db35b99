package appointment

import (
	"context"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	errs "github.com/carwash-market/coin-ledger/internal/domain/error"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
)

// UpdateStatus applies a status change and, when the stored previous status
// was not completed and the new one is, grants the completion reward in the
// same transaction. If the credit fails the status change is rolled back.
func (s *Service) UpdateStatus(ctx context.Context, req usecase.UpdateStatusRequest) (*usecase.StatusUpdateResult, error) {
	if !entity.IsValidAppointmentStatus(string(req.Status)) {
		return nil, errs.ErrInvalidStatusTransition
	}

	var result *usecase.StatusUpdateResult
	err := s.ledger.Atomically(ctx, func(txCtx context.Context) error {
		appointments := s.ledger.UnitOfWork().GetAppointmentRepository(txCtx)

		appt, err := appointments.GetForUpdate(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if err := s.authorizeStatusChange(txCtx, req.ActorID, appt, req.Status); err != nil {
			return err
		}

		action, err := appt.TransitionTo(req.Status, s.timeProvider)
		if err != nil {
			return err
		}
		if req.Notes != nil {
			appt.Notes = *req.Notes
		}

		var reward *entity.Transaction
		if action == entity.RewardGrant {
			if reward, err = s.grantReward(txCtx, appt); err != nil {
				return err
			}
		}

		if err := appointments.Update(txCtx, appt); err != nil {
			return err
		}
		result = &usecase.StatusUpdateResult{Appointment: appt, Reward: reward}
		return nil
	})
	if err != nil {
		s.logger.Warn("Appointment status change failed", map[string]any{
			"appointment_id": req.AppointmentID,
			"status":         string(req.Status),
			"actor_id":       req.ActorID,
			"error":          err.Error(),
		})
		return nil, err
	}

	fields := map[string]any{
		"appointment_id": req.AppointmentID,
		"status":         string(req.Status),
	}
	if result.Reward != nil {
		fields["reward"] = result.Reward.Amount
	}
	s.logger.Info("Appointment status updated", fields)
	return result, nil
}

// CreditForCompletion settles the reward of a completed appointment on behalf
// of its vendor or an admin. It is a no-op returning a nil entry once the
// reward has been granted.
func (s *Service) CreditForCompletion(ctx context.Context, actorID, appointmentID string) (*entity.Transaction, error) {
	var reward *entity.Transaction
	err := s.ledger.Atomically(ctx, func(txCtx context.Context) error {
		appointments := s.ledger.UnitOfWork().GetAppointmentRepository(txCtx)

		appt, err := appointments.GetForUpdate(txCtx, appointmentID)
		if err != nil {
			return err
		}
		if err := s.authorizeStatusChange(txCtx, actorID, appt, entity.StatusCompleted); err != nil {
			return err
		}
		if appt.Status != entity.StatusCompleted {
			return errs.ErrInvalidStatusTransition
		}
		if appt.RewardGranted {
			return nil
		}

		if reward, err = s.grantReward(txCtx, appt); err != nil {
			return err
		}
		return appointments.Update(txCtx, appt)
	})
	if err != nil {
		return nil, err
	}

	if reward != nil {
		s.logger.Info("Completion reward credited", map[string]any{
			"appointment_id": appointmentID,
			"user_id":        reward.UserID,
			"amount":         reward.Amount,
		})
	}
	return reward, nil
}

// authorizeStatusChange lets the owning vendor or an admin make any change;
// the customer may only cancel
func (s *Service) authorizeStatusChange(txCtx context.Context, actorID string, appt *entity.Appointment, next entity.AppointmentStatus) error {
	if actorID == appt.CustomerID {
		if next == entity.StatusCancelledByCustomer {
			return nil
		}
		return errs.ErrForbidden
	}

	uow := s.ledger.UnitOfWork()
	actor, err := uow.GetUserRepository(txCtx).GetByID(txCtx, actorID)
	if err != nil {
		return err
	}
	vendor, err := uow.GetVendorRepository(txCtx).GetByID(txCtx, appt.VendorID)
	if err != nil {
		return err
	}
	if !vendor.IsManagedBy(actor) {
		return errs.ErrForbidden
	}
	return nil
}
