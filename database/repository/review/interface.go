package reviewRepo

import (
	"context"

	"cleanly/models"
)

// ReviewRepository stores homeowner reviews of cleaners.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByCleaner(ctx context.Context, cleanerID string) ([]models.Review, error)
	Exists(ctx context.Context, appointmentID, cleanerID string) (bool, error)
}
