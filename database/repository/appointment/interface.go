package appointmentRepo

import (
	"context"
	"time"

	"cleanly/models"
)

// AppointmentRepository defines data access for appointments and their
// cleaner assignments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByHomeID(ctx context.Context, homeID string) ([]models.Appointment, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Appointment, error)
	GetByHomeAndDate(ctx context.Context, homeID, date string) (*models.Appointment, error)
	// GetOpen lists uncompleted appointments on or after fromDate that still
	// need cleaners.
	GetOpen(ctx context.Context, fromDate string) ([]models.Appointment, error)
	// GetByCleaner lists appointments the cleaner is assigned to. When
	// fromDate is set, only uncompleted appointments on or after it.
	GetByCleaner(ctx context.Context, cleanerID, fromDate string) ([]models.Appointment, error)
	SetReminderTask(ctx context.Context, id, taskID string) error
	// ApplyChange applies an edit to an unpaid, uncompleted appointment and
	// returns the result. It fails with ErrNotFound when the appointment is
	// gone or no longer matches the change.
	ApplyChange(ctx context.Context, id string, change models.AppointmentChange) (*models.Appointment, error)
	// SetPaymentIntent stores the intent while the appointment is unpaid and
	// still priced at price.
	SetPaymentIntent(ctx context.Context, id, intentID string, price int64) (bool, error)
	// MarkPaid flags the appointment paid if intentID and price still match.
	MarkPaid(ctx context.Context, id, intentID string, price int64) (bool, error)
	// MarkCompleted reports false when the appointment was already completed.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
	// AssignCleaner adds the cleaner if a slot is still open. It reports
	// whether the assignment happened.
	AssignCleaner(ctx context.Context, id, cleanerID string) (bool, error)
	// UnassignCleaner removes the cleaner and clears hasBeenAssigned.
	UnassignCleaner(ctx context.Context, id, cleanerID string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, today string) (models.AppointmentStats, error)
}
