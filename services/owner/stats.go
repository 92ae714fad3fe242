package owner

import (
	"context"
	"fmt"

	"cleanly/models"
)

func (s *DefaultOwnerService) Stats(ctx context.Context) (*models.OwnerStats, error) {
	frozen, active := true, false

	homeowners, err := s.Users.CountByType(ctx, models.UserTypeHomeowner, nil)
	if err != nil {
		return nil, fmt.Errorf("count homeowners: %w", err)
	}
	activeCleaners, err := s.Users.CountByType(ctx, models.UserTypeCleaner, &active)
	if err != nil {
		return nil, fmt.Errorf("count cleaners: %w", err)
	}
	frozenCleaners, err := s.Users.CountByType(ctx, models.UserTypeCleaner, &frozen)
	if err != nil {
		return nil, fmt.Errorf("count frozen cleaners: %w", err)
	}
	appts, err := s.Appointments.Stats(ctx, models.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("appointment stats: %w", err)
	}
	payouts, err := s.Payouts.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("payout totals: %w", err)
	}

	return &models.OwnerStats{
		Homeowners:     homeowners,
		ActiveCleaners: activeCleaners,
		FrozenCleaners: frozenCleaners,
		Appointments:   appts,
		Payouts:        payouts,
	}, nil
}
