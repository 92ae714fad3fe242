package user

import (
	"context"
	"time"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/services/terms"
	"cleanly/utils"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest, device models.Device) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest, device models.Device) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID, deviceID string) error

	// Sessions
	ValidateSession(ctx context.Context, userID, deviceID, tokenHash string) error
	RevokeAllSessions(ctx context.Context, userID string) error

	// Profile
	Me(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      repository.UserRepository
	Bills     repository.BillRepository
	Terms     terms.TermsService
	AuthCache utils.Cache
	Secret    []byte
	TokenTTL  time.Duration
}
