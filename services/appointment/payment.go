package appointment

import (
	"context"
	"fmt"

	"cleanly/models"
	"cleanly/services/payment"
	"cleanly/utils"

	"go.uber.org/zap"
)

// CreatePaymentIntent starts a card payment for the appointment's price.
func (s *DefaultAppointmentService) CreatePaymentIntent(ctx context.Context, userID, appointmentID string) (*models.PaymentIntentResponse, error) {
	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Paid {
		return nil, utils.NewValidationError("appointment is already paid")
	}
	if appt.Price <= 0 {
		return nil, utils.NewValidationError("appointment has nothing to pay")
	}

	intent, err := s.Payments.CreatePaymentIntent(ctx, appt.Price, map[string]string{
		"appointmentId": appt.ID,
		"userId":        userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	stored, err := s.Appointments.SetPaymentIntent(ctx, appt.ID, intent.ID, appt.Price)
	if err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}
	if !stored {
		return nil, utils.NewConflictError("the appointment changed while starting the payment, please try again")
	}

	return &models.PaymentIntentResponse{
		AppointmentID:   appt.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	}, nil
}

// ConfirmPayment marks the appointment paid once its payment intent has
// succeeded, moving the price from due to paid on the bill.
func (s *DefaultAppointmentService) ConfirmPayment(ctx context.Context, userID, appointmentID string) (*models.Appointment, error) {
	appt, err := s.ownedAppointment(ctx, userID, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Paid {
		return appt, nil
	}
	if appt.PaymentIntentID == "" {
		return nil, utils.NewValidationError("no payment has been started for this appointment")
	}

	intent, err := s.Payments.GetPaymentIntent(ctx, appt.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("fetch payment intent: %w", err)
	}
	if intent.Status != payment.StatusSucceeded {
		return nil, utils.NewValidationError("payment has not completed (status %s)", intent.Status)
	}
	if intent.Amount != appt.Price {
		return nil, utils.NewValidationError("payment amount does not match the appointment price")
	}

	marked, err := s.Appointments.MarkPaid(ctx, appt.ID, intent.ID, appt.Price)
	if err != nil {
		return nil, fmt.Errorf("mark appointment paid: %w", err)
	}
	if !marked {
		// Another confirm won the race; the bill was settled there.
		latest, err := s.ownedAppointment(ctx, userID, appointmentID)
		if err != nil {
			return nil, err
		}
		if latest.Paid {
			return latest, nil
		}
		return nil, utils.NewConflictError("the appointment changed during payment, please try again")
	}
	appt.Paid = true
	if _, err := s.Bills.Adjust(ctx, userID, models.BillDelta{AppointmentDue: -appt.Price, TotalPaid: appt.Price}); err != nil {
		return nil, fmt.Errorf("record payment on bill: %w", err)
	}

	utils.GetLogger().Info("Appointment paid",
		zap.String("appointmentID", appt.ID), zap.String("paymentIntentID", intent.ID), zap.Int64("amount", appt.Price))
	return appt, nil
}
