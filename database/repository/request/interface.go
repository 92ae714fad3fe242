package requestRepo

import (
	"context"

	"cleanly/models"
)

// RequestRepository stores cleaners' requests to work appointments.
type RequestRepository interface {
	Create(ctx context.Context, req *models.PendingRequest) error
	GetByID(ctx context.Context, id string) (*models.PendingRequest, error)
	// FindActive returns the cleaner's pending request for an appointment.
	FindActive(ctx context.Context, appointmentID, cleanerID string) (*models.PendingRequest, error)
	GetPendingByAppointment(ctx context.Context, appointmentID string) ([]models.PendingRequest, error)
	GetPendingForHomeowner(ctx context.Context, homeownerID string) ([]models.PendingRequest, error)
	GetByCleaner(ctx context.Context, cleanerID, status string) ([]models.PendingRequest, error)
	// UpdateStatus moves a request out of pending. It reports false when the
	// request was no longer pending.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	// SetStatusForAppointment moves every pending request of an appointment
	// to status, except the one with exceptID.
	SetStatusForAppointment(ctx context.Context, appointmentID, exceptID, status string) (int64, error)
	SetStatusForCleaner(ctx context.Context, cleanerID, status string) (int64, error)
	// ExpireBefore expires pending requests for appointments dated before date.
	ExpireBefore(ctx context.Context, date string) (int64, error)
}
