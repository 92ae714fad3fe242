package appointment

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/notification"
	"cleanly/services/payment"
	"cleanly/services/servicearea"
	"cleanly/services/tasks"
)

type AppointmentService interface {
	Create(ctx context.Context, userID string, req models.CreateAppointmentRequest) (*models.Appointment, error)
	ListByHome(ctx context.Context, userID, homeID string) ([]models.Appointment, error)

	// Pricing edits. Each one moves the price and the bill by the same delta.
	SetSheets(ctx context.Context, userID, appointmentID string, bringSheets bool) (*models.Appointment, error)
	SetTowels(ctx context.Context, userID, appointmentID string, bringTowels bool) (*models.Appointment, error)
	SetTimeWindow(ctx context.Context, userID, appointmentID, window string) (*models.Appointment, error)

	Cancel(ctx context.Context, userID, appointmentID string) (*CancelResult, error)

	CreatePaymentIntent(ctx context.Context, userID, appointmentID string) (*models.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, userID, appointmentID string) (*models.Appointment, error)
}

// BillingPolicy holds the cancellation terms.
type BillingPolicy struct {
	CancellationFee        int64
	CancellationWindowDays int
}

// CancelResult reports what cancelling an appointment cost.
type CancelResult struct {
	AppointmentID   string       `json:"appointmentId"`
	CancellationFee int64        `json:"cancellationFee"`
	Bill            *models.Bill `json:"bill"`
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Appointments repository.AppointmentRepository
	Homes        repository.HomeRepository
	Bills        repository.BillRepository
	Requests     repository.RequestRepository
	Area         servicearea.Checker
	Payments     payment.Gateway
	Reminders    tasks.ReminderScheduler
	Notifier     notification.NotificationService
	Policy       BillingPolicy
	Now          func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
