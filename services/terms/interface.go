package terms

import (
	"context"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"
)

// TermsService publishes versioned terms of service and tracks acceptance.
type TermsService interface {
	Current(ctx context.Context, termsType string) (*models.Terms, error)
	Publish(ctx context.Context, ownerID string, req models.PublishTermsRequest) (*models.Terms, error)
	History(ctx context.Context, termsType string) ([]models.Terms, error)
	Accept(ctx context.Context, userID, termsID, ipAddress string) (*models.TermsAcceptance, error)
	Status(ctx context.Context, userID string) (*models.TermsStatus, error)
	RecordAcceptance(ctx context.Context, userID string, terms *models.Terms, ipAddress string) (*models.TermsAcceptance, error)
	SeedDefaults(ctx context.Context) error
}

// DefaultTermsService is the production implementation.
type DefaultTermsService struct {
	Repo  repository.TermsRepository
	Users repository.UserRepository
	Cache utils.Cache
}

// ValidType reports whether terms can be published for the user type.
func ValidType(termsType string) bool {
	return termsType == models.UserTypeHomeowner || termsType == models.UserTypeCleaner
}
