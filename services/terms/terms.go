package terms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func cacheKey(termsType string) string {
	return utils.TermsCachePrefix + termsType
}

// Current returns the latest published terms for a type. It returns a
// not_found AppError when nothing has been published yet.
func (s *DefaultTermsService) Current(ctx context.Context, termsType string) (*models.Terms, error) {
	if !ValidType(termsType) {
		return nil, utils.NewValidationError("type must be homeowner or cleaner")
	}

	if s.Cache != nil {
		if raw, ok, err := s.Cache.Get(ctx, cacheKey(termsType)); err == nil && ok {
			var t models.Terms
			if json.Unmarshal([]byte(raw), &t) == nil {
				return &t, nil
			}
		}
	}

	t, err := s.Repo.GetLatest(ctx, termsType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("no terms have been published")
	}
	if err != nil {
		return nil, fmt.Errorf("load current terms: %w", err)
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(t); err == nil {
			if err := s.Cache.Set(ctx, cacheKey(termsType), string(raw), utils.SettingsCacheTTL); err != nil {
				utils.GetLogger().Warn("failed to cache terms", zap.Error(err))
			}
		}
	}
	return t, nil
}

func (s *DefaultTermsService) latestVersion(ctx context.Context, termsType string) (int, error) {
	t, err := s.Repo.GetLatest(ctx, termsType)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return t.Version, nil
}

// Publish stores a new version, one above the latest for the type.
func (s *DefaultTermsService) Publish(ctx context.Context, ownerID string, req models.PublishTermsRequest) (*models.Terms, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if !ValidType(req.Type) {
		return nil, utils.NewValidationError("type must be homeowner or cleaner")
	}
	if req.Title == "" || req.Content == "" {
		return nil, utils.NewValidationError("title and content are required")
	}

	latest, err := s.latestVersion(ctx, req.Type)
	if err != nil {
		return nil, fmt.Errorf("load latest terms: %w", err)
	}

	t := &models.Terms{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Version:   latest + 1,
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("publish terms: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, cacheKey(req.Type)); err != nil {
			utils.GetLogger().Warn("failed to invalidate terms cache", zap.Error(err))
		}
	}

	utils.GetLogger().Info("Terms published",
		zap.String("type", t.Type), zap.Int("version", t.Version), zap.String("ownerID", ownerID))
	return t, nil
}

func (s *DefaultTermsService) History(ctx context.Context, termsType string) ([]models.Terms, error) {
	if !ValidType(termsType) {
		return nil, utils.NewValidationError("type must be homeowner or cleaner")
	}
	list, err := s.Repo.ListByType(ctx, termsType)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return list, nil
}

// Accept records that the user agreed to termsID, which must be the current
// version for the user's type.
func (s *DefaultTermsService) Accept(ctx context.Context, userID, termsID, ipAddress string) (*models.TermsAcceptance, error) {
	if termsID == "" {
		return nil, utils.NewValidationError("termsId is required")
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !ValidType(user.Type) {
		return nil, utils.NewValidationError("no terms apply to this account type")
	}

	current, err := s.Current(ctx, user.Type)
	if err != nil {
		return nil, err
	}
	if current.ID != termsID {
		return nil, utils.NewValidationError("only the current terms version can be accepted")
	}

	acc, err := s.RecordAcceptance(ctx, userID, current, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := s.Users.SetTermsAcceptedVersion(ctx, userID, current.Version); err != nil {
		return nil, fmt.Errorf("update accepted terms version: %w", err)
	}
	return acc, nil
}

// RecordAcceptance writes the acceptance record only.
func (s *DefaultTermsService) RecordAcceptance(ctx context.Context, userID string, terms *models.Terms, ipAddress string) (*models.TermsAcceptance, error) {
	acc := &models.TermsAcceptance{
		ID:         uuid.New().String(),
		UserID:     userID,
		TermsID:    terms.ID,
		Version:    terms.Version,
		IPAddress:  ipAddress,
		AcceptedAt: time.Now().UTC(),
	}
	if err := s.Repo.CreateAcceptance(ctx, acc); err != nil {
		return nil, fmt.Errorf("record terms acceptance: %w", err)
	}
	return acc, nil
}

func (s *DefaultTermsService) Status(ctx context.Context, userID string) (*models.TermsStatus, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	status := &models.TermsStatus{AcceptedVersion: user.TermsAcceptedVersion}
	if !ValidType(user.Type) {
		return status, nil
	}

	current, err := s.Current(ctx, user.Type)
	if utils.IsCode(err, utils.CodeNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.CurrentVersion = current.Version
	status.CurrentTermsID = current.ID
	status.RequiresAcceptance = user.TermsAcceptedVersion < current.Version
	return status, nil
}
