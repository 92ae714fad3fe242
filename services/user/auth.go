package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a homeowner or cleaner account and signs in the device.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest, device models.Device) (*models.AuthResponse, error) {
	logger := utils.GetLogger()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = NormalizeEmail(req.Email)
	if err := validateRegistration(req.Username, req.Email, req.Password, req.Type); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewConflictError("email is already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.Repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, utils.NewConflictError("username is already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	accepted, err := s.termsToAccept(ctx, req.Type, req.TermsID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Type:         req.Type,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  strings.TrimSpace(req.Phone),
	}
	if accepted != nil {
		u.TermsAcceptedVersion = accepted.Version
	}
	if err := s.Repo.Create(ctx, u); errors.Is(err, repository.ErrDuplicate) {
		return nil, utils.NewConflictError("an account with this email or username already exists")
	} else if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if accepted != nil {
		if _, err := s.Terms.RecordAcceptance(ctx, u.ID, accepted, device.IP); err != nil {
			logger.Error("Register: failed to record terms acceptance", zap.String("userID", u.ID), zap.Error(err))
		}
	}

	if u.Type == models.UserTypeHomeowner {
		bill := &models.Bill{ID: uuid.New().String(), UserID: u.ID}
		if err := s.Bills.Create(ctx, bill); err != nil {
			return nil, fmt.Errorf("create bill: %w", err)
		}
	}

	token, err := s.issueSession(ctx, u, device)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", zap.String("userID", u.ID), zap.String("type", u.Type))
	return &models.AuthResponse{ID: u.ID, Token: token, Type: u.Type, Username: u.Username, Email: u.Email}, nil
}

// termsToAccept resolves the terms version a registration agrees to. Cleaners
// must accept the current cleaner terms whenever any are published.
func (s *DefaultUserService) termsToAccept(ctx context.Context, userType, termsID string) (*models.Terms, error) {
	if s.Terms == nil {
		return nil, nil
	}
	current, err := s.Terms.Current(ctx, userType)
	if utils.IsCode(err, utils.CodeNotFound) {
		if termsID != "" {
			return nil, utils.NewValidationError("unknown terms version")
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case termsID == current.ID:
		return current, nil
	case termsID == "" && userType == models.UserTypeHomeowner:
		return nil, nil
	case termsID == "":
		return nil, utils.NewValidationError("cleaners must accept the current terms to register")
	default:
		return nil, utils.NewValidationError("only the current terms version can be accepted")
	}
}

// Login authenticates by email or username and issues a token for the device.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest, device models.Device) (*models.AuthResponse, error) {
	var (
		u   *models.User
		err error
	)
	switch {
	case strings.TrimSpace(req.Email) != "":
		u, err = s.Repo.GetByEmail(ctx, NormalizeEmail(req.Email))
	case strings.TrimSpace(req.Username) != "":
		u, err = s.Repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	default:
		return nil, utils.NewValidationError("email or username is required")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.issueSession(ctx, u, device)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{ID: u.ID, Token: token, Type: u.Type, Username: u.Username, Email: u.Email}, nil
}

// Logout clears the device's token hash and its cache entry.
func (s *DefaultUserService) Logout(ctx context.Context, userID, deviceID string) error {
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		return userNotFound(err)
	}
	if err := s.Repo.ClearDeviceToken(ctx, userID, deviceID); err != nil {
		return fmt.Errorf("clear device token: %w", err)
	}
	s.dropCache(ctx, utils.AuthCacheKey(userID, deviceID))
	return nil
}
