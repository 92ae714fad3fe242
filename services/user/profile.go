package user

import (
	"context"
	"fmt"
	"strings"

	"cleanly/models"
	"cleanly/services/terms"
	"cleanly/utils"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return u, nil
}

// Me returns the caller's profile with their terms acceptance state.
func (s *DefaultUserService) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &models.UserProfile{User: *u}

	if s.Terms != nil && terms.ValidType(u.Type) {
		current, err := s.Terms.Current(ctx, u.Type)
		switch {
		case err == nil:
			profile.CurrentTermsVersion = current.Version
			profile.RequiresTermsAcceptance = u.TermsAcceptedVersion < current.Version
		case !utils.IsCode(err, utils.CodeNotFound):
			return nil, err
		}
	}
	return profile, nil
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.Repo.SetFCMToken(ctx, userID, strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("update fcm token: %w", err)
	}
	return nil
}
