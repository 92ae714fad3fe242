package servicearea

import (
	"context"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/geo"
	"cleanly/utils"
)

// Checker decides whether an address may book cleanings.
type Checker interface {
	Check(ctx context.Context, addr models.Address) (models.AreaCheckResult, error)
}

// ServiceAreaService manages the service-area rule.
type ServiceAreaService interface {
	Checker
	GetConfig(ctx context.Context) (*models.ServiceAreaConfig, error)
	// UpdateConfig validates and stores cfg, then recomputes every home's
	// outsideServiceArea flag. It returns how many homes changed.
	UpdateConfig(ctx context.Context, ownerID string, cfg models.ServiceAreaConfig) (*models.ServiceAreaConfig, int, error)
}

// DefaultServiceAreaService is the production implementation.
type DefaultServiceAreaService struct {
	Settings repository.SettingsRepository
	Homes    repository.HomeRepository
	Geocoder geo.Geocoder
	Cache    utils.Cache
}

// DefaultOutsideAreaMessage is shown when no custom message is configured.
const DefaultOutsideAreaMessage = "Sorry, we don't service this area yet."

// MaxRadiusMiles bounds a radius-mode center.
const MaxRadiusMiles = 500

// DefaultConfig is used until an owner saves one: every address is eligible.
func DefaultConfig() models.ServiceAreaConfig {
	return models.ServiceAreaConfig{
		Enabled:            false,
		Mode:               models.ServiceAreaList,
		Cities:             []string{},
		States:             []string{},
		Zipcodes:           []string{},
		Centers:            []models.ServiceAreaCenter{},
		OutsideAreaMessage: DefaultOutsideAreaMessage,
	}
}
