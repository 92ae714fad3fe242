package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cleanly/models"
	"cleanly/utils"

	"go.uber.org/zap"
)

// ErrNoResults is returned when the address could not be located.
var ErrNoResults = errors.New("address could not be located")

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Geocoder resolves postal addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, addr models.Address) (Coordinates, error)
}

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder calls the Google Geocoding API and caches results.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   utils.Cache
}

// NewGoogleGeocoder builds a geocoder for apiKey.
func NewGoogleGeocoder(apiKey string, cache utils.Cache) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: defaultGeocodeURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
		Cache:   cache,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// FormatAddress joins the non-empty address parts.
func FormatAddress(addr models.Address) string {
	var parts []string
	for _, p := range []string{addr.Address, addr.City, addr.State, addr.Zipcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, addr models.Address) (Coordinates, error) {
	query := FormatAddress(addr)
	if query == "" {
		return Coordinates{}, ErrNoResults
	}
	if g.APIKey == "" {
		return Coordinates{}, errors.New("geocoding is not configured")
	}

	cacheKey := utils.GeocodeCachePrefix + strings.ToLower(query)
	if g.Cache != nil {
		if raw, ok, err := g.Cache.Get(ctx, cacheKey); err == nil && ok {
			var c Coordinates
			if json.Unmarshal([]byte(raw), &c) == nil {
				return c, nil
			}
		}
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocode request returned %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, ErrNoResults
	default:
		return Coordinates{}, fmt.Errorf("geocode status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	coords := body.Results[0].Geometry.Location
	if g.Cache != nil {
		if raw, err := json.Marshal(coords); err == nil {
			if err := g.Cache.Set(ctx, cacheKey, string(raw), utils.GeocodeCacheTTL); err != nil {
				utils.GetLogger().Warn("failed to cache geocode", zap.Error(err))
			}
		}
	}
	return coords, nil
}
