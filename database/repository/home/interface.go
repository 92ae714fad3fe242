package homeRepo

import (
	"context"

	"cleanly/models"
)

// HomeRepository defines data access for homeowner properties.
type HomeRepository interface {
	Create(ctx context.Context, home *models.Home) error
	GetByID(ctx context.Context, id string) (*models.Home, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Home, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Home, error)
	GetAll(ctx context.Context) ([]models.Home, error)
	// Update writes the homeowner-editable fields. Photos and preferred
	// cleaners are only changed through their own methods.
	Update(ctx context.Context, home *models.Home) error
	AddPhoto(ctx context.Context, id, publicID string) (*models.Home, error)
	AddPreferredCleaner(ctx context.Context, id, cleanerID string) (*models.Home, error)
	RemovePreferredCleaner(ctx context.Context, id, cleanerID string) (*models.Home, error)
	// SetOutsideServiceArea flips the area flag without touching other fields.
	SetOutsideServiceArea(ctx context.Context, id string, outside bool) error
	Delete(ctx context.Context, id string) error
}
