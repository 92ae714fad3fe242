package appointment

import (
	"context"
	"errors"
	"fmt"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/pricing"
	"cleanly/utils"

	"go.uber.org/zap"
)

func editable(appt *models.Appointment) error {
	if appt.Paid {
		return utils.NewValidationError("paid appointments cannot be changed")
	}
	if appt.Completed {
		return utils.NewValidationError("completed appointments cannot be changed")
	}
	return nil
}

// applyChange writes the edit and moves the bill by the same amount. The
// write only lands if the appointment still matches what was read; otherwise
// the caller gets a conflict and can retry on fresh data.
func (s *DefaultAppointmentService) applyChange(ctx context.Context, appt *models.Appointment, change models.AppointmentChange) (*models.Appointment, error) {
	updated, err := s.Appointments.ApplyChange(ctx, appt.ID, change)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewConflictError("the appointment changed while you were editing it, please try again")
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	if change.Delta == 0 {
		return updated, nil
	}
	if _, err := s.Bills.Adjust(ctx, appt.UserID, models.BillDelta{AppointmentDue: change.Delta}); err != nil {
		return nil, fmt.Errorf("adjust bill: %w", err)
	}
	utils.GetLogger().Debug("Appointment price adjusted",
		zap.String("appointmentID", appt.ID), zap.Int64("delta", change.Delta), zap.Int64("price", updated.Price))
	return updated, nil
}

func (s *DefaultAppointmentService) SetSheets(ctx context.Context, userID, appointmentID string, bringSheets bool) (*models.Appointment, error) {
	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.BringSheets == bringSheets {
		return appt, nil
	}
	if err := editable(appt); err != nil {
		return nil, err
	}
	return s.applyChange(ctx, appt, models.AppointmentChange{
		BringSheets: &bringSheets,
		Delta:       pricing.SheetsDelta(appt.BringSheets, bringSheets),
	})
}

func (s *DefaultAppointmentService) SetTowels(ctx context.Context, userID, appointmentID string, bringTowels bool) (*models.Appointment, error) {
	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.BringTowels == bringTowels {
		return appt, nil
	}
	if err := editable(appt); err != nil {
		return nil, err
	}
	return s.applyChange(ctx, appt, models.AppointmentChange{
		BringTowels: &bringTowels,
		Delta:       pricing.TowelsDelta(appt.BringTowels, bringTowels),
	})
}

func (s *DefaultAppointmentService) SetTimeWindow(ctx context.Context, userID, appointmentID, window string) (*models.Appointment, error) {
	if !pricing.ValidTimeWindow(window) {
		return nil, utils.NewValidationError("unknown time window %q", window)
	}
	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	current := appt.TimeToBeCompleted
	if current == "" {
		current = models.TimeAnytime
	}
	if current == window {
		return appt, nil
	}
	if err := editable(appt); err != nil {
		return nil, err
	}
	delta, err := pricing.TimeDelta(current, window)
	if err != nil {
		return nil, utils.NewValidationError("%s", err.Error())
	}
	return s.applyChange(ctx, appt, models.AppointmentChange{
		FromWindow: appt.TimeToBeCompleted,
		ToWindow:   window,
		Delta:      delta,
	})
}
