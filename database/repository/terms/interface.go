package termsRepo

import (
	"context"

	"cleanly/models"
)

// TermsRepository stores versioned terms and user acceptances.
type TermsRepository interface {
	Create(ctx context.Context, terms *models.Terms) error
	GetByID(ctx context.Context, id string) (*models.Terms, error)
	// GetLatest returns the highest version for a type.
	GetLatest(ctx context.Context, termsType string) (*models.Terms, error)
	ListByType(ctx context.Context, termsType string) ([]models.Terms, error)
	CreateAcceptance(ctx context.Context, acceptance *models.TermsAcceptance) error
}
