package servicearea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleanly/models"
	"cleanly/services/geo"
	"cleanly/utils"
)

// Validate checks a config before it is stored.
func Validate(cfg models.ServiceAreaConfig) error {
	switch cfg.Mode {
	case models.ServiceAreaList:
		if cfg.Enabled && len(nonEmpty(cfg.Cities))+len(nonEmpty(cfg.States))+len(nonEmpty(cfg.Zipcodes)) == 0 {
			return utils.NewValidationError("list mode needs at least one city, state or zipcode")
		}
	case models.ServiceAreaRadius:
		if cfg.Enabled && len(cfg.Centers) == 0 {
			return utils.NewValidationError("radius mode needs at least one center")
		}
		for i, c := range cfg.Centers {
			if !geo.ValidCoordinates(geo.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}) {
				return utils.NewValidationError("center %d has invalid coordinates", i+1)
			}
			if c.RadiusMiles <= 0 || c.RadiusMiles > MaxRadiusMiles {
				return utils.NewValidationError("center %d radius must be greater than 0 and at most %d miles", i+1, MaxRadiusMiles)
			}
		}
	default:
		return utils.NewValidationError("mode must be %q or %q", models.ServiceAreaList, models.ServiceAreaRadius)
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cityMatches compares a configured city entry, optionally "City, ST", to an address.
func cityMatches(entry string, addr models.Address) bool {
	city, state, hasState := strings.Cut(entry, ",")
	if norm(city) != norm(addr.City) || norm(addr.City) == "" {
		return false
	}
	if hasState && norm(state) != "" && norm(addr.State) != "" {
		return norm(state) == norm(addr.State)
	}
	return true
}

// InList applies list-mode matching: zipcode, then city, then state.
func InList(cfg models.ServiceAreaConfig, addr models.Address) bool {
	zip := norm(addr.Zipcode)
	for _, z := range cfg.Zipcodes {
		if zip != "" && norm(z) == zip {
			return true
		}
	}
	for _, c := range cfg.Cities {
		if cityMatches(c, addr) {
			return true
		}
	}
	state := norm(addr.State)
	for _, s := range cfg.States {
		if state != "" && norm(s) == state {
			return true
		}
	}
	return false
}

// InRadius reports whether point lies inside any center.
func InRadius(cfg models.ServiceAreaConfig, point geo.Coordinates) bool {
	for _, c := range cfg.Centers {
		center := geo.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
		if geo.HaversineMiles(center, point) <= c.RadiusMiles {
			return true
		}
	}
	return false
}

// Evaluate applies cfg to an address. Known coordinates skip geocoding in
// radius mode.
func Evaluate(ctx context.Context, cfg models.ServiceAreaConfig, addr models.Address, known *geo.Coordinates, geocoder geo.Geocoder) models.AreaCheckResult {
	if !cfg.Enabled {
		return models.AreaCheckResult{Eligible: true}
	}
	outside := cfg.OutsideAreaMessage
	if outside == "" {
		outside = DefaultOutsideAreaMessage
	}

	if cfg.Mode == models.ServiceAreaList {
		if InList(cfg, addr) {
			return models.AreaCheckResult{Eligible: true}
		}
		return models.AreaCheckResult{Eligible: false, Message: outside}
	}

	var point geo.Coordinates
	if known != nil {
		point = *known
	} else {
		if geocoder == nil {
			return models.AreaCheckResult{Eligible: false, Message: "We couldn't verify this address right now."}
		}
		coords, err := geocoder.Geocode(ctx, addr)
		if err != nil {
			msg := "We couldn't verify this address right now."
			if errors.Is(err, geo.ErrNoResults) {
				msg = "We couldn't find this address. Please check it and try again."
			}
			return models.AreaCheckResult{Eligible: false, Message: msg}
		}
		point = coords
	}

	result := models.AreaCheckResult{Latitude: point.Latitude, Longitude: point.Longitude}
	if InRadius(cfg, point) {
		result.Eligible = true
	} else {
		result.Message = outside
	}
	return result
}

// describe is used in logs.
func describe(cfg models.ServiceAreaConfig) string {
	if !cfg.Enabled {
		return "disabled"
	}
	if cfg.Mode == models.ServiceAreaRadius {
		return fmt.Sprintf("radius(%d centers)", len(cfg.Centers))
	}
	return fmt.Sprintf("list(%d cities, %d states, %d zipcodes)", len(cfg.Cities), len(cfg.States), len(cfg.Zipcodes))
}
