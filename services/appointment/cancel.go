package appointment

import (
	"context"
	"fmt"

	"cleanly/models"
	"cleanly/utils"

	"go.uber.org/zap"
)

// daysUntil counts whole days from today (UTC) to the appointment date.
func (s *DefaultAppointmentService) daysUntil(appt *models.Appointment) (int, error) {
	day, err := appt.ParsedDate()
	if err != nil {
		return 0, err
	}
	today, _ := models.ParseDate(models.DateOf(s.now()))
	return int(day.Sub(today).Hours() / 24), nil
}

// Cancel removes an unpaid appointment, takes its price off the bill and
// charges the cancellation fee when it falls inside the cancellation window.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, userID, appointmentID string) (*CancelResult, error) {
	logger := utils.GetLogger()

	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Paid || appt.Completed {
		return nil, utils.NewValidationError("paid or completed appointments cannot be cancelled")
	}

	days, err := s.daysUntil(appt)
	if err != nil {
		return nil, fmt.Errorf("parse appointment date: %w", err)
	}
	var fee int64
	if days <= s.Policy.CancellationWindowDays {
		fee = s.Policy.CancellationFee
	}

	if err := s.Appointments.Delete(ctx, appt.ID); err != nil {
		return nil, fmt.Errorf("delete appointment: %w", err)
	}
	bill, err := s.Bills.Adjust(ctx, userID, models.BillDelta{AppointmentDue: -appt.Price, CancellationFee: fee})
	if err != nil {
		return nil, fmt.Errorf("adjust bill: %w", err)
	}

	if n, err := s.Requests.SetStatusForAppointment(ctx, appt.ID, "", models.RequestCancelled); err != nil {
		logger.Warn("failed to cancel pending requests", zap.String("appointmentID", appt.ID), zap.Error(err))
	} else if n > 0 {
		logger.Debug("Cancelled pending requests", zap.String("appointmentID", appt.ID), zap.Int64("count", n))
	}

	if s.Reminders != nil && appt.ReminderTaskID != "" {
		if err := s.Reminders.Cancel(ctx, appt.ReminderTaskID); err != nil {
			logger.Warn("failed to cancel reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}

	if s.Notifier != nil && len(appt.EmployeesAssigned) > 0 {
		s.Notifier.PushMany(ctx, appt.EmployeesAssigned,
			"Appointment cancelled",
			fmt.Sprintf("The cleaning on %s has been cancelled by the homeowner.", appt.Date),
			map[string]string{"type": "appointment_cancelled", "appointmentId": appt.ID})
	}

	logger.Info("Appointment cancelled",
		zap.String("appointmentID", appt.ID), zap.Int64("cancellationFee", fee))
	return &CancelResult{AppointmentID: appt.ID, CancellationFee: fee, Bill: bill}, nil
}
