package owner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultOwnerService) Cleaners(ctx context.Context) ([]models.CleanerSummary, error) {
	cleaners, err := s.Users.GetByType(ctx, models.UserTypeCleaner)
	if err != nil {
		return nil, fmt.Errorf("load cleaners: %w", err)
	}
	out := make([]models.CleanerSummary, 0, len(cleaners))
	for _, c := range cleaners {
		out = append(out, models.CleanerSummary{
			CleanerProfile:      c.ToCleanerProfile(),
			Email:               c.Email,
			AccountFrozen:       c.AccountFrozen,
			AccountFrozenReason: c.AccountFrozenReason,
			WarningCount:        c.WarningCount,
			HasStripeAccount:    c.StripeAccountID != "",
		})
	}
	return out, nil
}

func moderationReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < utils.MinModerationReasonLen {
		return "", utils.NewValidationError("reason must be at least %d characters", utils.MinModerationReasonLen)
	}
	return reason, nil
}

func (s *DefaultOwnerService) loadCleaner(ctx context.Context, cleanerID string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, cleanerID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && u.Type != models.UserTypeCleaner) {
		return nil, utils.NewNotFoundError("cleaner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cleaner: %w", err)
	}
	return u, nil
}

// Freeze suspends a cleaner: every session is revoked, pending requests are
// cancelled and upcoming jobs are handed back to their homeowners.
func (s *DefaultOwnerService) Freeze(ctx context.Context, ownerID, cleanerID, reason string) (*models.User, error) {
	logger := utils.GetLogger()

	reason, err := moderationReason(reason)
	if err != nil {
		return nil, err
	}
	cleaner, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if cleaner.AccountFrozen {
		return nil, utils.NewValidationError("this account is already frozen")
	}

	frozenAt := s.now()
	changed, err := s.Users.SetFrozen(ctx, cleaner.ID, true, frozenAt, reason)
	if err != nil {
		return nil, fmt.Errorf("freeze cleaner: %w", err)
	}
	if !changed {
		return nil, utils.NewValidationError("this account is already frozen")
	}
	cleaner.AccountFrozen = true
	cleaner.AccountFrozenAt = &frozenAt
	cleaner.AccountFrozenReason = reason

	if s.Sessions != nil {
		if err := s.Sessions.RevokeAllSessions(ctx, cleaner.ID); err != nil {
			logger.Warn("failed to revoke sessions", zap.String("cleanerID", cleaner.ID), zap.Error(err))
		}
	}
	if _, err := s.Requests.SetStatusForCleaner(ctx, cleaner.ID, models.RequestCancelled); err != nil {
		logger.Warn("failed to cancel requests", zap.String("cleanerID", cleaner.ID), zap.Error(err))
	}

	upcoming, err := s.Appointments.GetByCleaner(ctx, cleaner.ID, models.DateOf(frozenAt))
	if err != nil {
		logger.Warn("failed to load upcoming appointments", zap.String("cleanerID", cleaner.ID), zap.Error(err))
	}
	for _, a := range upcoming {
		if err := s.Appointments.UnassignCleaner(ctx, a.ID, cleaner.ID); err != nil {
			logger.Warn("failed to unassign cleaner", zap.String("appointmentID", a.ID), zap.Error(err))
			continue
		}
		s.notify(ctx, a.UserID, "Cleaner unavailable",
			fmt.Sprintf("Your cleaner for %s is no longer available. The job is open for requests again.", a.Date),
			map[string]string{"type": "cleaner_removed", "appointmentId": a.ID})
	}

	utils.ModerationActions.WithLabelValues("freeze").Inc()
	logger.Info("Cleaner frozen",
		zap.String("cleanerID", cleaner.ID), zap.String("ownerID", ownerID), zap.Int("unassigned", len(upcoming)))
	s.notify(ctx, cleaner.ID, "Account frozen",
		"Your account has been frozen. Contact support for details.",
		map[string]string{"type": "account_frozen"})
	return cleaner, nil
}

func (s *DefaultOwnerService) Unfreeze(ctx context.Context, ownerID, cleanerID string) (*models.User, error) {
	cleaner, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if !cleaner.AccountFrozen {
		return nil, utils.NewValidationError("this account is not frozen")
	}
	changed, err := s.Users.SetFrozen(ctx, cleaner.ID, false, time.Time{}, "")
	if err != nil {
		return nil, fmt.Errorf("unfreeze cleaner: %w", err)
	}
	if !changed {
		return nil, utils.NewValidationError("this account is not frozen")
	}
	cleaner.AccountFrozen = false
	cleaner.AccountFrozenAt = nil
	cleaner.AccountFrozenReason = ""

	utils.ModerationActions.WithLabelValues("unfreeze").Inc()
	utils.GetLogger().Info("Cleaner unfrozen", zap.String("cleanerID", cleaner.ID), zap.String("ownerID", ownerID))
	s.notify(ctx, cleaner.ID, "Account restored",
		"Your account is active again. Welcome back!",
		map[string]string{"type": "account_unfrozen"})
	return cleaner, nil
}

func (s *DefaultOwnerService) Warn(ctx context.Context, ownerID, cleanerID, reason string) (*models.Warning, error) {
	reason, err := moderationReason(reason)
	if err != nil {
		return nil, err
	}
	cleaner, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}

	w := models.Warning{
		ID:        uuid.New().String(),
		Reason:    reason,
		IssuedBy:  ownerID,
		CreatedAt: s.now(),
	}
	if err := s.Users.AddWarning(ctx, cleaner.ID, w); err != nil {
		return nil, fmt.Errorf("add warning: %w", err)
	}

	utils.ModerationActions.WithLabelValues("warn").Inc()
	utils.GetLogger().Info("Cleaner warned",
		zap.String("cleanerID", cleaner.ID), zap.String("ownerID", ownerID), zap.Int("warningCount", cleaner.WarningCount+1))
	s.notify(ctx, cleaner.ID, "You received a warning", reason,
		map[string]string{"type": "account_warning", "warningId": w.ID})
	return &w, nil
}

func (s *DefaultOwnerService) Warnings(ctx context.Context, cleanerID string) ([]models.Warning, error) {
	cleaner, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if cleaner.Warnings == nil {
		return []models.Warning{}, nil
	}
	return cleaner.Warnings, nil
}

func (s *DefaultOwnerService) notify(ctx context.Context, userID, title, body string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Push(ctx, userID, title, body, data); err != nil {
		utils.GetLogger().Warn("push failed", zap.String("userID", userID), zap.Error(err))
	}
}
