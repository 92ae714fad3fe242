package servicearea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/geo"
	"cleanly/utils"

	"go.uber.org/zap"
)

func (s *DefaultServiceAreaService) GetConfig(ctx context.Context) (*models.ServiceAreaConfig, error) {
	if s.Cache != nil {
		if raw, ok, err := s.Cache.Get(ctx, utils.ServiceAreaCacheKey); err == nil && ok {
			var cfg models.ServiceAreaConfig
			if json.Unmarshal([]byte(raw), &cfg) == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := s.Settings.GetServiceArea(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		def := DefaultConfig()
		cfg = &def
	} else if err != nil {
		return nil, fmt.Errorf("load service area: %w", err)
	}

	s.cache(ctx, cfg)
	return cfg, nil
}

func (s *DefaultServiceAreaService) cache(ctx context.Context, cfg *models.ServiceAreaConfig) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, utils.ServiceAreaCacheKey, string(raw), utils.SettingsCacheTTL); err != nil {
		utils.GetLogger().Warn("failed to cache service area", zap.Error(err))
	}
}

func (s *DefaultServiceAreaService) UpdateConfig(ctx context.Context, ownerID string, cfg models.ServiceAreaConfig) (*models.ServiceAreaConfig, int, error) {
	cfg.Cities = nonEmpty(cfg.Cities)
	cfg.States = nonEmpty(cfg.States)
	cfg.Zipcodes = nonEmpty(cfg.Zipcodes)
	if cfg.Centers == nil {
		cfg.Centers = []models.ServiceAreaCenter{}
	}
	if err := Validate(cfg); err != nil {
		return nil, 0, err
	}
	if cfg.OutsideAreaMessage == "" {
		cfg.OutsideAreaMessage = DefaultOutsideAreaMessage
	}
	cfg.UpdatedBy = ownerID
	cfg.UpdatedAt = time.Now().UTC()

	if err := s.Settings.SaveServiceArea(ctx, &cfg); err != nil {
		return nil, 0, fmt.Errorf("save service area: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, utils.ServiceAreaCacheKey); err != nil {
			utils.GetLogger().Warn("failed to invalidate service area cache", zap.Error(err))
		}
	}

	changed, err := s.recheckHomes(ctx, cfg)
	if err != nil {
		return &cfg, changed, err
	}
	utils.GetLogger().Info("service area updated",
		zap.String("ownerID", ownerID),
		zap.String("rule", describe(cfg)),
		zap.Int("homesChanged", changed))
	return &cfg, changed, nil
}

// recheckHomes recomputes every home's flag and writes only the ones that changed.
func (s *DefaultServiceAreaService) recheckHomes(ctx context.Context, cfg models.ServiceAreaConfig) (int, error) {
	homes, err := s.Homes.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list homes for recheck: %w", err)
	}
	changed := 0
	for _, h := range homes {
		var known *geo.Coordinates
		if h.Latitude != 0 || h.Longitude != 0 {
			known = &geo.Coordinates{Latitude: h.Latitude, Longitude: h.Longitude}
		}
		res := Evaluate(ctx, cfg, h.AddressOf(), known, s.Geocoder)
		outside := !res.Eligible
		if outside == h.OutsideServiceArea {
			continue
		}
		if err := s.Homes.SetOutsideServiceArea(ctx, h.ID, outside); err != nil {
			utils.GetLogger().Error("failed to flag home", zap.String("homeID", h.ID), zap.Error(err))
			continue
		}
		changed++
	}
	return changed, nil
}

func (s *DefaultServiceAreaService) Check(ctx context.Context, addr models.Address) (models.AreaCheckResult, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return models.AreaCheckResult{}, err
	}
	return Evaluate(ctx, *cfg, addr, nil, s.Geocoder), nil
}
