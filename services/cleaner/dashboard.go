package cleaner

import (
	"context"
	"fmt"

	"cleanly/models"
)

// Dashboard gathers the cleaner's upcoming jobs, tier and earnings.
func (s *DefaultCleanerService) Dashboard(ctx context.Context, cleanerID string) (*models.CleanerDashboard, error) {
	u, err := s.loadCleaner(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.Appointments.GetByCleaner(ctx, cleanerID, s.today())
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	rows, err := s.withHomes(ctx, upcoming)
	if err != nil {
		return nil, err
	}
	tier, err := s.Perks.Progress(ctx, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("load tier: %w", err)
	}
	payouts, err := s.Payouts.Summary(ctx, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("load payouts: %w", err)
	}
	return &models.CleanerDashboard{User: *u, Appointments: rows, Tier: tier, Payouts: payouts}, nil
}
