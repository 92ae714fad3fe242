package home

import (
	"context"
	"io"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/geo"
	"cleanly/services/servicearea"
	"cleanly/services/storage"
	"cleanly/services/tasks"
)

type HomeService interface {
	Dashboard(ctx context.Context, userID string) (*models.HomeownerDashboard, error)

	Create(ctx context.Context, userID string, req models.HomeRequest) (*models.Home, error)
	Update(ctx context.Context, userID, homeID string, req models.HomeUpdateRequest) (*models.Home, error)
	Delete(ctx context.Context, userID, homeID string) (*DeleteResult, error)
	UploadPhoto(ctx context.Context, userID, homeID string, file io.Reader, filename string) (*models.Home, error)

	PreferredCleaners(ctx context.Context, userID, homeID string) ([]models.CleanerProfile, error)
	AddPreferredCleaner(ctx context.Context, userID, homeID, cleanerID string) ([]models.CleanerProfile, error)
	RemovePreferredCleaner(ctx context.Context, userID, homeID, cleanerID string) ([]models.CleanerProfile, error)
}

// DeleteResult reports the appointments removed with a home.
type DeleteResult struct {
	HomeID              string       `json:"homeId"`
	RemovedAppointments int          `json:"removedAppointments"`
	Bill                *models.Bill `json:"bill,omitempty"`
}

// DefaultHomeService is the production implementation.
type DefaultHomeService struct {
	Users        repository.UserRepository
	Homes        repository.HomeRepository
	Appointments repository.AppointmentRepository
	Bills        repository.BillRepository
	Requests     repository.RequestRepository
	Area         servicearea.Checker
	Geocoder     geo.Geocoder
	Storage      storage.StorageService
	Reminders    tasks.ReminderScheduler
	Now          func() time.Time
}

func (s *DefaultHomeService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
