package userRepo

import (
	"context"
	"time"

	"cleanly/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDs retrieves the users with the given IDs.
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// GetByEmail retrieves a user by its lower-cased email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByType lists all users of a type.
	GetByType(ctx context.Context, userType string) ([]models.User, error)
	// CountByType counts users of a type, optionally filtered by frozen state.
	CountByType(ctx context.Context, userType string, frozen *bool) (int64, error)
	// SetDevices replaces the signed-in device list.
	SetDevices(ctx context.Context, id string, devices []models.Device) error
	// ClearDeviceToken signs one device out.
	ClearDeviceToken(ctx context.Context, id, deviceID string) error
	// ClearAllDeviceTokens signs every device out.
	ClearAllDeviceTokens(ctx context.Context, id string) error
	SetFCMToken(ctx context.Context, id, token string) error
	SetStripeAccount(ctx context.Context, id, accountID string) error
	// SetTermsAcceptedVersion raises the accepted terms version.
	SetTermsAcceptedVersion(ctx context.Context, id string, version int) error
	// SetFrozen changes the moderation state. It reports false when the
	// account was already in the requested state.
	SetFrozen(ctx context.Context, id string, frozen bool, at time.Time, reason string) (bool, error)
	// AddRating folds a review rating into the cleaner's average and returns
	// the updated user.
	AddRating(ctx context.Context, id string, rating int) (*models.User, error)
	// IncrementCompletedJobs bumps a cleaner's completed job counter.
	IncrementCompletedJobs(ctx context.Context, id string) error
	// AddWarning appends a warning and increments warningCount.
	AddWarning(ctx context.Context, id string, warning models.Warning) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}
