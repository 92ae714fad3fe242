package perks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PerksService manages the cleaner tier ladder.
type PerksService interface {
	GetConfig(ctx context.Context) (*models.TierConfig, error)
	UpdateConfig(ctx context.Context, ownerID string, tiers []models.Tier) (*models.TierConfig, error)
	// TierFor resolves the tier of a cleaner with completedJobs.
	TierFor(ctx context.Context, completedJobs int) (models.Tier, error)
	Progress(ctx context.Context, cleanerID string) (*models.TierProgress, error)
}

// DefaultPerksService is the production implementation.
type DefaultPerksService struct {
	Settings repository.SettingsRepository
	Users    repository.UserRepository
}

const (
	maxBonusPercent    = 50
	maxPayoutDelayDays = 30
)

// DefaultTiers is the ladder used until an owner saves one.
func DefaultTiers() []models.Tier {
	return []models.Tier{
		{Name: "Bronze", MinCompletedJobs: 0, BonusPercent: "0", PayoutDelayDays: 7, Perks: []string{"Standard payouts"}},
		{Name: "Silver", MinCompletedJobs: 10, BonusPercent: "2", PayoutDelayDays: 5, Perks: []string{"2% bonus on every job", "Faster payouts"}},
		{Name: "Gold", MinCompletedJobs: 25, BonusPercent: "4", PayoutDelayDays: 3, Perks: []string{"4% bonus on every job", "Priority job requests"}},
		{Name: "Platinum", MinCompletedJobs: 50, BonusPercent: "6", PayoutDelayDays: 1, Perks: []string{"6% bonus on every job", "Next-day payouts"}},
	}
}

// ValidateTiers checks the ladder shape and bounds.
func ValidateTiers(tiers []models.Tier) error {
	if len(tiers) == 0 {
		return utils.NewValidationError("at least one tier is required")
	}
	if tiers[0].MinCompletedJobs != 0 {
		return utils.NewValidationError("the first tier must start at 0 completed jobs")
	}
	names := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return utils.NewValidationError("tier %d needs a name", i+1)
		}
		if names[name] {
			return utils.NewValidationError("tier name %q is used twice", t.Name)
		}
		names[name] = true

		if i > 0 && t.MinCompletedJobs <= tiers[i-1].MinCompletedJobs {
			return utils.NewValidationError("tier thresholds must strictly increase")
		}
		bonus, err := decimal.NewFromString(t.BonusPercent)
		if err != nil {
			return utils.NewValidationError("tier %q bonusPercent must be a number", t.Name)
		}
		if bonus.IsNegative() || bonus.GreaterThan(decimal.NewFromInt(maxBonusPercent)) {
			return utils.NewValidationError("tier %q bonusPercent must be between 0 and %d", t.Name, maxBonusPercent)
		}
		if t.PayoutDelayDays < 0 || t.PayoutDelayDays > maxPayoutDelayDays {
			return utils.NewValidationError("tier %q payoutDelayDays must be between 0 and %d", t.Name, maxPayoutDelayDays)
		}
	}
	return nil
}

// Resolve picks the highest tier whose threshold completedJobs reaches, and
// the tier after it if any. tiers must be valid.
func Resolve(tiers []models.Tier, completedJobs int) (models.Tier, *models.Tier) {
	current := 0
	for i, t := range tiers {
		if completedJobs >= t.MinCompletedJobs {
			current = i
		}
	}
	if current+1 < len(tiers) {
		next := tiers[current+1]
		return tiers[current], &next
	}
	return tiers[current], nil
}

// BonusPercent parses a tier's bonus, treating malformed values as zero.
func BonusPercent(t models.Tier) decimal.Decimal {
	d, err := decimal.NewFromString(t.BonusPercent)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *DefaultPerksService) GetConfig(ctx context.Context) (*models.TierConfig, error) {
	cfg, err := s.Settings.GetTiers(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.TierConfig{Tiers: DefaultTiers()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load tiers: %w", err)
	}
	return cfg, nil
}

func (s *DefaultPerksService) UpdateConfig(ctx context.Context, ownerID string, tiers []models.Tier) (*models.TierConfig, error) {
	for i := range tiers {
		tiers[i].Name = strings.TrimSpace(tiers[i].Name)
		if tiers[i].Perks == nil {
			tiers[i].Perks = []string{}
		}
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	cfg := &models.TierConfig{Tiers: tiers, UpdatedBy: ownerID, UpdatedAt: time.Now().UTC()}
	if err := s.Settings.SaveTiers(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save tiers: %w", err)
	}
	utils.GetLogger().Info("tier config updated", zap.String("ownerID", ownerID), zap.Int("tiers", len(tiers)))
	return cfg, nil
}

func (s *DefaultPerksService) TierFor(ctx context.Context, completedJobs int) (models.Tier, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return models.Tier{}, err
	}
	current, _ := Resolve(cfg.Tiers, completedJobs)
	return current, nil
}

func (s *DefaultPerksService) Progress(ctx context.Context, cleanerID string) (*models.TierProgress, error) {
	cleaner, err := s.Users.GetByID(ctx, cleanerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("cleaner not found")
		}
		return nil, err
	}
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	current, next := Resolve(cfg.Tiers, cleaner.CompletedJobs)
	progress := &models.TierProgress{
		CompletedJobs: cleaner.CompletedJobs,
		Current:       current,
		Next:          next,
	}
	if next != nil {
		progress.JobsToNext = next.MinCompletedJobs - cleaner.CompletedJobs
	}
	return progress, nil
}
