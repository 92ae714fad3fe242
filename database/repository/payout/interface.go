package payoutRepo

import (
	"context"
	"time"

	"cleanly/models"
)

// PayoutRepository stores cleaner payouts.
type PayoutRepository interface {
	Create(ctx context.Context, payout *models.Payout) error
	GetByCleaner(ctx context.Context, cleanerID string) ([]models.Payout, error)
	// GetDue lists pending payouts whose availableAt has passed.
	GetDue(ctx context.Context, now time.Time) ([]models.Payout, error)
	Update(ctx context.Context, payout *models.Payout) error
	Totals(ctx context.Context) (models.PayoutTotals, error)
}

// WithdrawalRepository stores owner withdrawals of platform earnings.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.PlatformWithdrawal) error
	Update(ctx context.Context, w *models.PlatformWithdrawal) error
	List(ctx context.Context) ([]models.PlatformWithdrawal, error)
}
