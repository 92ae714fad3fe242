package billRepo

import (
	"context"
	"fmt"
	"time"

	"cleanly/database"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoBillRepo struct {
	coll *mongo.Collection
}

// NewMongoBillRepo returns a BillRepository backed by the bills collection.
func NewMongoBillRepo() BillRepository {
	repo := &mongoBillRepo{coll: database.Collection("bills")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		utils.GetLogger().Error("failed to create bill indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoBillRepo) Create(ctx context.Context, bill *models.Bill) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	bill.UpdatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, bill); err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

func (r *mongoBillRepo) GetByUserID(ctx context.Context, userID string) (*models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bill models.Bill
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&bill); err != nil {
		return nil, fmt.Errorf("failed to fetch bill of %s: %w", userID, database.NotFound(err))
	}
	return &bill, nil
}

func (r *mongoBillRepo) Adjust(ctx context.Context, userID string, delta models.BillDelta) (*models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// totalDue moves with both due components so it never drifts from their sum.
	update := bson.M{
		"$inc": bson.M{
			"appointmentDue":  delta.AppointmentDue,
			"cancellationFee": delta.CancellationFee,
			"totalDue":        delta.AppointmentDue + delta.CancellationFee,
			"totalPaid":       delta.TotalPaid,
		},
		"$set":         bson.M{"updatedAt": time.Now().UTC()},
		"$setOnInsert": bson.M{"id": uuid.New().String()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var bill models.Bill
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&bill); err != nil {
		return nil, fmt.Errorf("failed to adjust bill of %s: %w", userID, err)
	}
	return &bill, nil
}
