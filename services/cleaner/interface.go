package cleaner

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/notification"
	"cleanly/services/payout"
	"cleanly/services/perks"
	"cleanly/utils"

	"go.uber.org/zap"
)

// CleanerService is the cleaner side of the marketplace: finding work,
// asking for it and finishing it.
type CleanerService interface {
	Dashboard(ctx context.Context, cleanerID string) (*models.CleanerDashboard, error)
	Available(ctx context.Context, cleanerID string) ([]models.AppointmentWithHome, error)

	RequestJob(ctx context.Context, cleanerID, appointmentID string) (*RequestResult, error)
	CancelRequest(ctx context.Context, cleanerID, requestID string) error

	Leave(ctx context.Context, cleanerID, appointmentID string) (*models.Appointment, error)
	Complete(ctx context.Context, cleanerID, appointmentID string) (*CompleteResult, error)

	PayoutSummary(ctx context.Context, cleanerID string) (*models.PayoutSummary, error)
	SetStripeAccount(ctx context.Context, cleanerID, accountID string) (*models.User, error)
}

// RequestService is the homeowner side of job requests.
type RequestService interface {
	ListPending(ctx context.Context, homeownerID string) ([]models.PendingRequestView, error)
	Approve(ctx context.Context, homeownerID, requestID string) (*models.Appointment, error)
	Deny(ctx context.Context, homeownerID, requestID string) error
	// ExpireStale marks pending requests for past dates as expired.
	ExpireStale(ctx context.Context) (int64, error)
}

// RequestResult is returned when a cleaner asks for a job.
type RequestResult struct {
	Request      models.PendingRequest `json:"request"`
	AutoApproved bool                  `json:"autoApproved"`
	Appointment  *models.Appointment   `json:"appointment,omitempty"`
}

// CompleteResult is a finished job and the payouts it produced.
type CompleteResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Payouts     []models.Payout     `json:"payouts"`
}

// DefaultCleanerService implements both CleanerService and RequestService.
type DefaultCleanerService struct {
	Users        repository.UserRepository
	Homes        repository.HomeRepository
	Appointments repository.AppointmentRepository
	Requests     repository.RequestRepository
	Perks        perks.PerksService
	Payouts      payout.PayoutService
	Notifier     notification.NotificationService
	Now          func() time.Time
}

var (
	_ CleanerService = (*DefaultCleanerService)(nil)
	_ RequestService = (*DefaultCleanerService)(nil)
)

func (s *DefaultCleanerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultCleanerService) today() string {
	return models.DateOf(s.now())
}

func (s *DefaultCleanerService) notify(ctx context.Context, userID, title, body string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Push(ctx, userID, title, body, data); err != nil {
		utils.GetLogger().Warn("push failed", zap.String("userID", userID), zap.Error(err))
	}
}
