package owner

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/notification"
	"cleanly/services/payment"
)

type OwnerService interface {
	Stats(ctx context.Context) (*models.OwnerStats, error)

	Cleaners(ctx context.Context) ([]models.CleanerSummary, error)
	Freeze(ctx context.Context, ownerID, cleanerID, reason string) (*models.User, error)
	Unfreeze(ctx context.Context, ownerID, cleanerID string) (*models.User, error)
	Warn(ctx context.Context, ownerID, cleanerID, reason string) (*models.Warning, error)
	Warnings(ctx context.Context, cleanerID string) ([]models.Warning, error)

	Withdrawals(ctx context.Context) ([]models.PlatformWithdrawal, error)
	Balance(ctx context.Context) (*Balance, error)
	Withdraw(ctx context.Context, ownerID string, req models.WithdrawalRequest) (*models.PlatformWithdrawal, error)
}

// SessionRevoker signs a user out of every device.
type SessionRevoker interface {
	RevokeAllSessions(ctx context.Context, userID string) error
}

// Balance is the platform's Stripe balance available for withdrawal.
type Balance struct {
	Available int64  `json:"available"`
	Currency  string `json:"currency"`
}

// DefaultOwnerService is the production implementation.
type DefaultOwnerService struct {
	Users          repository.UserRepository
	Appointments   repository.AppointmentRepository
	Requests       repository.RequestRepository
	Payouts        repository.PayoutRepository
	WithdrawalRepo repository.WithdrawalRepository
	Sessions       SessionRevoker
	Gateway        payment.Gateway
	Notifier       notification.NotificationService
	Now            func() time.Time
}

func (s *DefaultOwnerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
