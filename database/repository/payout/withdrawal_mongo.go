package payoutRepo

import (
	"context"
	"fmt"
	"time"

	"cleanly/database"
	"cleanly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoWithdrawalRepo struct {
	coll *mongo.Collection
}

// NewMongoWithdrawalRepo returns a WithdrawalRepository backed by the withdrawals collection.
func NewMongoWithdrawalRepo() WithdrawalRepository {
	return &mongoWithdrawalRepo{coll: database.Collection("withdrawals")}
}

func (r *mongoWithdrawalRepo) Create(ctx context.Context, w *models.PlatformWithdrawal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *mongoWithdrawalRepo) Update(ctx context.Context, w *models.PlatformWithdrawal) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	w.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": w.ID}, bson.M{"$set": w})
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %s: %w", w.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("withdrawal %s: %w", w.ID, database.ErrNotFound)
	}
	return nil
}

func (r *mongoWithdrawalRepo) List(ctx context.Context) ([]models.PlatformWithdrawal, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.PlatformWithdrawal{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode withdrawals: %w", err)
	}
	return out, nil
}
