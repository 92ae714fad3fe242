package payout

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/payment"
	"cleanly/services/perks"

	"github.com/shopspring/decimal"
)

type PayoutService interface {
	// CreateForAppointment splits a completed appointment's price into one
	// payout per assigned cleaner.
	CreateForAppointment(ctx context.Context, appt models.Appointment) ([]models.Payout, error)
	// ProcessDue transfers due payouts to the cleaners' connected accounts.
	ProcessDue(ctx context.Context) (ProcessResult, error)
	Summary(ctx context.Context, cleanerID string) (*models.PayoutSummary, error)
}

// ProcessResult counts the outcome of one ProcessDue run.
type ProcessResult struct {
	Paid    int `json:"paid"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// DefaultPayoutService is the production implementation.
type DefaultPayoutService struct {
	Payouts    repository.PayoutRepository
	Users      repository.UserRepository
	Perks      perks.PerksService
	Gateway    payment.Gateway
	FeePercent decimal.Decimal
	Now        func() time.Time
}

func (s *DefaultPayoutService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
