package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"go.uber.org/zap"
)

// issueSession signs a token for the device, stores its hash on the device
// and in the auth cache, and evicts the least recently used devices beyond
// the per-account limit.
func (s *DefaultUserService) issueSession(ctx context.Context, u *models.User, device models.Device) (string, error) {
	if device.DeviceID == "" {
		device.DeviceID = utils.DefaultDeviceID
	}

	token, err := utils.GenerateToken(s.Secret, utils.TokenClaims{
		UserID:   u.ID,
		Email:    u.Email,
		UserType: u.Type,
		DeviceID: device.DeviceID,
	}, s.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	tokenHash := utils.HashToken(token)
	now := time.Now().UTC()

	found := false
	for i := range u.Devices {
		if u.Devices[i].DeviceID == device.DeviceID {
			u.Devices[i].TokenHash = tokenHash
			u.Devices[i].LastLogin = now
			u.Devices[i].IP = device.IP
			if device.DeviceName != "" {
				u.Devices[i].DeviceName = device.DeviceName
			}
			found = true
			break
		}
	}
	if !found {
		device.TokenHash = tokenHash
		device.LastLogin = now
		u.Devices = append(u.Devices, device)
	}

	var evicted []models.Device
	u.Devices, evicted = capDevices(u.Devices, utils.MaxDevicesPerAccount)

	if err := s.Repo.SetDevices(ctx, u.ID, u.Devices); err != nil {
		return "", fmt.Errorf("save device session: %w", err)
	}

	for _, d := range evicted {
		s.dropCache(ctx, utils.AuthCacheKey(u.ID, d.DeviceID))
	}
	if s.AuthCache != nil {
		if err := s.AuthCache.Set(ctx, utils.AuthCacheKey(u.ID, device.DeviceID), tokenHash, utils.AuthCacheTTL); err != nil {
			utils.GetLogger().Warn("failed to cache token hash", zap.String("userID", u.ID), zap.Error(err))
		}
	}
	return token, nil
}

// capDevices keeps the max most recently used devices.
func capDevices(devices []models.Device, max int) (kept, evicted []models.Device) {
	if len(devices) <= max {
		return devices, nil
	}
	sorted := append([]models.Device(nil), devices...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LastLogin.After(sorted[j].LastLogin) })
	return sorted[:max], sorted[max:]
}

func (s *DefaultUserService) dropCache(ctx context.Context, keys ...string) {
	if s.AuthCache == nil || len(keys) == 0 {
		return
	}
	if err := s.AuthCache.Delete(ctx, keys...); err != nil {
		utils.GetLogger().Warn("failed to clear auth cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// ValidateSession checks a bearer token hash against the auth cache and
// falls back to the stored device list on a miss.
func (s *DefaultUserService) ValidateSession(ctx context.Context, userID, deviceID, tokenHash string) error {
	key := utils.AuthCacheKey(userID, deviceID)
	if s.AuthCache != nil {
		cached, ok, err := s.AuthCache.Get(ctx, key)
		if err != nil {
			utils.GetLogger().Warn("auth cache unavailable", zap.Error(err))
		} else if ok {
			if cached == tokenHash {
				return nil
			}
			return utils.NewUnauthorizedError("session expired, please sign in again")
		}
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewUnauthorizedError("account no longer exists")
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	for _, d := range u.Devices {
		if d.DeviceID == deviceID && d.TokenHash != "" && d.TokenHash == tokenHash {
			if s.AuthCache != nil {
				_ = s.AuthCache.Set(ctx, key, tokenHash, utils.AuthCacheTTL)
			}
			return nil
		}
	}
	return utils.NewUnauthorizedError("session expired, please sign in again")
}

// RevokeAllSessions signs the user out of every device.
func (s *DefaultUserService) RevokeAllSessions(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return userNotFound(err)
	}
	keys := make([]string, 0, len(u.Devices))
	for _, d := range u.Devices {
		keys = append(keys, utils.AuthCacheKey(userID, d.DeviceID))
	}
	if err := s.Repo.ClearAllDeviceTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.dropCache(ctx, keys...)
	return nil
}
