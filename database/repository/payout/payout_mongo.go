package payoutRepo

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

type mongoPayoutRepo struct {
	coll *mongo.Collection
}

// NewMongoPayoutRepo returns a PayoutRepository backed by the payouts collection.
func NewMongoPayoutRepo() PayoutRepository {
	repo := &mongoPayoutRepo{coll: database.Collection("payouts")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "appointmentId", Value: 1}, {Key: "cleanerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "availableAt", Value: 1}}},
		{Keys: bson.D{{Key: "cleanerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		utils.GetLogger().Error("failed to create payout indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoPayoutRepo) Create(ctx context.Context, payout *models.Payout) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	payout.CreatedAt = now
	payout.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, payout); err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

func (r *mongoPayoutRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Payout, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payouts := []models.Payout{}
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, fmt.Errorf("failed to decode payouts: %w", err)
	}
	return payouts, nil
}

func (r *mongoPayoutRepo) GetByCleaner(ctx context.Context, cleanerID string) ([]models.Payout, error) {
	payouts, err := r.find(ctx, bson.M{"cleanerId": cleanerID}, bson.D{{Key: "createdAt", Value: -1}})
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts of %s: %w", cleanerID, err)
	}
	return payouts, nil
}

func (r *mongoPayoutRepo) GetDue(ctx context.Context, now time.Time) ([]models.Payout, error) {
	filter := bson.M{"status": models.PayoutPending, "availableAt": bson.M{"$lte": now}}
	payouts, err := r.find(ctx, filter, bson.D{{Key: "availableAt", Value: 1}})
	if err != nil {
		return nil, fmt.Errorf("failed to list due payouts: %w", err)
	}
	return payouts, nil
}

func (r *mongoPayoutRepo) Update(ctx context.Context, payout *models.Payout) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	payout.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": payout.ID}, bson.M{"$set": payout})
	if err != nil {
		return fmt.Errorf("failed to update payout %s: %w", payout.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payout %s: %w", payout.ID, database.ErrNotFound)
	}
	return nil
}

// Totals sums fees and amounts across every payout.
func (r *mongoPayoutRepo) Totals(ctx context.Context) (models.PayoutTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pending := bson.M{"$in": bson.A{"$status", bson.A{models.PayoutPending, models.PayoutProcessing}}}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"platformFees":  bson.M{"$sum": "$platformFee"},
			"pendingAmount": bson.M{"$sum": bson.M{"$cond": bson.A{pending, "$amount", 0}}},
			"paidAmount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.PayoutPaid}}, "$amount", 0,
			}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PayoutTotals{}, fmt.Errorf("failed to aggregate payout totals: %w", err)
	}
	defer cursor.Close(ctx)

	var totals models.PayoutTotals
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return models.PayoutTotals{}, fmt.Errorf("failed to decode payout totals: %w", err)
		}
	}
	return totals, cursor.Err()
}
