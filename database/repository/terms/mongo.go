package termsRepo

import (
	"context"
	"fmt"
	"time"

	"cleanly/database"
	"cleanly/models"
	"cleanly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoTermsRepo struct {
	terms       *mongo.Collection
	acceptances *mongo.Collection
}

// NewMongoTermsRepo returns a TermsRepository over the terms and
// terms_acceptances collections.
func NewMongoTermsRepo() TermsRepository {
	repo := &mongoTermsRepo{
		terms:       database.Collection("terms"),
		acceptances: database.Collection("terms_acceptances"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// The unique (type, version) pair rejects concurrent publishes of the same version.
	if _, err := repo.terms.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "version", Value: -1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		utils.GetLogger().Error("failed to create terms indexes", zap.Error(err))
	}
	if _, err := repo.acceptances.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "acceptedAt", Value: -1}},
	}); err != nil {
		utils.GetLogger().Error("failed to create terms acceptance indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoTermsRepo) Create(ctx context.Context, terms *models.Terms) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	terms.CreatedAt = time.Now().UTC()
	if _, err := r.terms.InsertOne(ctx, terms); err != nil {
		return fmt.Errorf("failed to create terms: %w", err)
	}
	return nil
}

func (r *mongoTermsRepo) GetByID(ctx context.Context, id string) (*models.Terms, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var terms models.Terms
	if err := r.terms.FindOne(ctx, bson.M{"id": id}).Decode(&terms); err != nil {
		return nil, fmt.Errorf("failed to fetch terms %s: %w", id, database.NotFound(err))
	}
	return &terms, nil
}

func (r *mongoTermsRepo) GetLatest(ctx context.Context, termsType string) (*models.Terms, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var terms models.Terms
	if err := r.terms.FindOne(ctx, bson.M{"type": termsType}, opts).Decode(&terms); err != nil {
		return nil, fmt.Errorf("failed to fetch latest %s terms: %w", termsType, database.NotFound(err))
	}
	return &terms, nil
}

func (r *mongoTermsRepo) ListByType(ctx context.Context, termsType string) ([]models.Terms, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cursor, err := r.terms.Find(ctx, bson.M{"type": termsType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s terms: %w", termsType, err)
	}
	defer cursor.Close(ctx)

	out := []models.Terms{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode terms: %w", err)
	}
	return out, nil
}

func (r *mongoTermsRepo) CreateAcceptance(ctx context.Context, acceptance *models.TermsAcceptance) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	acceptance.AcceptedAt = time.Now().UTC()
	if _, err := r.acceptances.InsertOne(ctx, acceptance); err != nil {
		return fmt.Errorf("failed to record terms acceptance: %w", err)
	}
	return nil
}
