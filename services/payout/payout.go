package payout

import (
	"context"
	"fmt"

	"cleanly/models"
	"cleanly/services/perks"
	"cleanly/services/pricing"
	"cleanly/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compute prices one cleaner's share. The tier bonus never exceeds the
// platform fee.
func Compute(share int64, feePercent decimal.Decimal, tier models.Tier) (amount, fee, bonus int64) {
	fee = pricing.PercentOf(share, feePercent)
	bonus = pricing.PercentOf(share, perks.BonusPercent(tier))
	if bonus > fee {
		bonus = fee
	}
	return share - fee + bonus, fee, bonus
}

func (s *DefaultPayoutService) CreateForAppointment(ctx context.Context, appt models.Appointment) ([]models.Payout, error) {
	logger := utils.GetLogger()
	if len(appt.EmployeesAssigned) == 0 {
		return nil, nil
	}

	existing := map[string]bool{}
	for _, cleanerID := range appt.EmployeesAssigned {
		list, err := s.Payouts.GetByCleaner(ctx, cleanerID)
		if err != nil {
			return nil, fmt.Errorf("load payouts: %w", err)
		}
		for _, p := range list {
			if p.AppointmentID == appt.ID {
				existing[cleanerID] = true
			}
		}
	}

	shares := pricing.SplitEvenly(appt.Price, len(appt.EmployeesAssigned))
	now := s.now()
	var created []models.Payout
	for i, cleanerID := range appt.EmployeesAssigned {
		if existing[cleanerID] {
			continue
		}
		cleaner, err := s.Users.GetByID(ctx, cleanerID)
		if err != nil {
			return created, fmt.Errorf("load cleaner %s: %w", cleanerID, err)
		}
		tier, err := s.Perks.TierFor(ctx, cleaner.CompletedJobs)
		if err != nil {
			return created, fmt.Errorf("resolve tier: %w", err)
		}

		amount, fee, bonus := Compute(shares[i], s.FeePercent, tier)
		p := models.Payout{
			ID:            uuid.New().String(),
			CleanerID:     cleanerID,
			AppointmentID: appt.ID,
			Amount:        amount,
			PlatformFee:   fee,
			Bonus:         bonus,
			Status:        models.PayoutPending,
			AvailableAt:   now.AddDate(0, 0, tier.PayoutDelayDays),
		}
		if err := s.Payouts.Create(ctx, &p); err != nil {
			return created, fmt.Errorf("create payout: %w", err)
		}
		created = append(created, p)
		logger.Info("Payout created",
			zap.String("payoutID", p.ID), zap.String("cleanerID", cleanerID),
			zap.Int64("amount", amount), zap.String("tier", tier.Name))
	}
	return created, nil
}

// ProcessDue skips frozen cleaners and cleaners without a connected Stripe
// account; their payouts stay pending for a later run.
func (s *DefaultPayoutService) ProcessDue(ctx context.Context) (ProcessResult, error) {
	logger := utils.GetLogger()
	var result ProcessResult

	due, err := s.Payouts.GetDue(ctx, s.now())
	if err != nil {
		return result, fmt.Errorf("load due payouts: %w", err)
	}

	cleaners := map[string]*models.User{}
	for i := range due {
		p := due[i]
		cleaner, ok := cleaners[p.CleanerID]
		if !ok {
			cleaner, err = s.Users.GetByID(ctx, p.CleanerID)
			if err != nil {
				logger.Warn("payout cleaner lookup failed", zap.String("payoutID", p.ID), zap.Error(err))
				cleaner = nil
			}
			cleaners[p.CleanerID] = cleaner
		}
		if cleaner == nil || cleaner.AccountFrozen || cleaner.StripeAccountID == "" {
			result.Skipped++
			continue
		}

		p.Status = models.PayoutProcessing
		if err := s.Payouts.Update(ctx, &p); err != nil {
			return result, fmt.Errorf("mark payout processing: %w", err)
		}

		transferID, err := s.Gateway.Transfer(ctx, p.Amount, cleaner.StripeAccountID, "payout-"+p.ID, map[string]string{
			"payoutId":      p.ID,
			"appointmentId": p.AppointmentID,
			"cleanerId":     p.CleanerID,
		})
		if err != nil {
			p.Status = models.PayoutFailed
			p.FailureReason = err.Error()
			result.Failed++
			logger.Error("Payout transfer failed", zap.String("payoutID", p.ID), zap.Error(err))
		} else {
			paidAt := s.now()
			p.Status = models.PayoutPaid
			p.StripeTransferID = transferID
			p.PaidAt = &paidAt
			result.Paid++
		}
		utils.PayoutsProcessed.WithLabelValues(p.Status).Inc()

		if err := s.Payouts.Update(ctx, &p); err != nil {
			return result, fmt.Errorf("record payout outcome: %w", err)
		}
	}

	if len(due) > 0 {
		logger.Info("Processed due payouts",
			zap.Int("paid", result.Paid), zap.Int("failed", result.Failed), zap.Int("skipped", result.Skipped))
	}
	return result, nil
}

func (s *DefaultPayoutService) Summary(ctx context.Context, cleanerID string) (*models.PayoutSummary, error) {
	list, err := s.Payouts.GetByCleaner(ctx, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("load payouts: %w", err)
	}
	summary := &models.PayoutSummary{Payouts: list}
	for _, p := range list {
		switch p.Status {
		case models.PayoutPending, models.PayoutProcessing:
			summary.PendingTotal += p.Amount
		case models.PayoutPaid:
			summary.PaidTotal += p.Amount
		case models.PayoutFailed:
			summary.FailedTotal += p.Amount
		}
	}
	return summary, nil
}
