package home

import (
	"context"
	"errors"
	"fmt"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"
)

func (s *DefaultHomeService) profiles(ctx context.Context, ids []string) ([]models.CleanerProfile, error) {
	out := []models.CleanerProfile{}
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cleaners: %w", err)
	}
	for _, u := range users {
		out = append(out, u.ToCleanerProfile())
	}
	return out, nil
}

func (s *DefaultHomeService) PreferredCleaners(ctx context.Context, userID, homeID string) ([]models.CleanerProfile, error) {
	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	return s.profiles(ctx, h.PreferredCleanerIDs)
}

// AddPreferredCleaner marks a cleaner who has completed a job at the home as
// preferred. Their future requests for the home are approved automatically.
func (s *DefaultHomeService) AddPreferredCleaner(ctx context.Context, userID, homeID, cleanerID string) ([]models.CleanerProfile, error) {
	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	if h.IsPreferred(cleanerID) {
		return s.profiles(ctx, h.PreferredCleanerIDs)
	}

	cleaner, err := s.Users.GetByID(ctx, cleanerID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && cleaner.Type != models.UserTypeCleaner) {
		return nil, utils.NewNotFoundError("cleaner not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load cleaner: %w", err)
	}

	appts, err := s.Appointments.GetByHomeID(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	worked := false
	for _, a := range appts {
		if a.Completed && a.IsAssigned(cleanerID) {
			worked = true
			break
		}
	}
	if !worked {
		return nil, utils.NewValidationError("a cleaner must complete a job at this home before being preferred")
	}

	updated, err := s.Homes.AddPreferredCleaner(ctx, h.ID, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("save preferred cleaners: %w", err)
	}
	return s.profiles(ctx, updated.PreferredCleanerIDs)
}

func (s *DefaultHomeService) RemovePreferredCleaner(ctx context.Context, userID, homeID, cleanerID string) ([]models.CleanerProfile, error) {
	h, err := s.ownedHome(ctx, userID, homeID)
	if err != nil {
		return nil, err
	}
	if !h.IsPreferred(cleanerID) {
		return nil, utils.NewNotFoundError("cleaner is not a preferred cleaner of this home")
	}
	updated, err := s.Homes.RemovePreferredCleaner(ctx, h.ID, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("save preferred cleaners: %w", err)
	}
	return s.profiles(ctx, updated.PreferredCleanerIDs)
}
