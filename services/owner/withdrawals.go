package owner

import (
	"context"
	"fmt"
	"strings"

	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultOwnerService) Withdrawals(ctx context.Context) ([]models.PlatformWithdrawal, error) {
	list, err := s.WithdrawalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load withdrawals: %w", err)
	}
	return list, nil
}

func (s *DefaultOwnerService) Balance(ctx context.Context) (*Balance, error) {
	available, err := s.Gateway.AvailableBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	return &Balance{Available: available, Currency: s.Gateway.Currency()}, nil
}

// Withdraw pays platform earnings out to the owner's bank. The record is kept
// even when Stripe rejects the payout.
func (s *DefaultOwnerService) Withdraw(ctx context.Context, ownerID string, req models.WithdrawalRequest) (*models.PlatformWithdrawal, error) {
	logger := utils.GetLogger()

	if req.Amount <= 0 {
		return nil, utils.NewValidationError("amount must be greater than zero")
	}
	available, err := s.Gateway.AvailableBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	if req.Amount > available {
		return nil, utils.NewValidationError("amount exceeds the available balance of %d", available)
	}

	w := &models.PlatformWithdrawal{
		ID:          uuid.New().String(),
		Amount:      req.Amount,
		Currency:    s.Gateway.Currency(),
		Description: strings.TrimSpace(req.Description),
		Status:      models.WithdrawalPending,
		RequestedBy: ownerID,
	}
	if err := s.WithdrawalRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("record withdrawal: %w", err)
	}

	payoutID, status, err := s.Gateway.Payout(ctx, w.Amount, w.Description)
	if err != nil {
		w.Status = models.WithdrawalFailed
		w.FailureReason = err.Error()
		logger.Error("Withdrawal failed", zap.String("withdrawalID", w.ID), zap.Error(err))
	} else {
		w.Status = status
		w.StripePayoutID = payoutID
		logger.Info("Withdrawal requested",
			zap.String("withdrawalID", w.ID), zap.Int64("amount", w.Amount), zap.String("status", status))
	}
	if err := s.WithdrawalRepo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update withdrawal: %w", err)
	}
	return w, nil
}
