package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// Cache keys for settings and lookups.
const (
	TermsCachePrefix       = "terms:current:"
	ServiceAreaCacheKey    = "settings:service_area"
	GeocodeCachePrefix     = "geocode:"
	SettingsCacheTTL       = 5 * time.Minute
	GeocodeCacheTTL        = 30 * 24 * time.Hour
	DefaultDeviceID        = "web"
	MaxDevicesPerAccount   = 5
	MinModerationReasonLen = 10
)

// AuthCacheKey is the Redis key holding the token hash of a user's device session.
func AuthCacheKey(userID, deviceID string) string {
	return AuthCachePrefix + userID + ":" + deviceID
}
