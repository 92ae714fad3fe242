package settingsRepo

import (
	"context"

	"cleanly/models"
)

// SettingsRepository stores singleton platform settings documents.
type SettingsRepository interface {
	GetServiceArea(ctx context.Context) (*models.ServiceAreaConfig, error)
	SaveServiceArea(ctx context.Context, cfg *models.ServiceAreaConfig) error
	GetTiers(ctx context.Context) (*models.TierConfig, error)
	SaveTiers(ctx context.Context, cfg *models.TierConfig) error
}
