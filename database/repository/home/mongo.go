package homeRepo

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

type mongoHomeRepo struct {
	coll *mongo.Collection
}

// NewMongoHomeRepo returns a HomeRepository backed by the homes collection.
func NewMongoHomeRepo() HomeRepository {
	repo := &mongoHomeRepo{coll: database.Collection("homes")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create home indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoHomeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoHomeRepo) Create(ctx context.Context, home *models.Home) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	home.CreatedAt = now
	home.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, home); err != nil {
		return fmt.Errorf("failed to create home: %w", err)
	}
	return nil
}

func (r *mongoHomeRepo) GetByID(ctx context.Context, id string) (*models.Home, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var home models.Home
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&home); err != nil {
		return nil, fmt.Errorf("failed to fetch home %s: %w", id, database.NotFound(err))
	}
	return &home, nil
}

func (r *mongoHomeRepo) find(ctx context.Context, filter bson.M) ([]models.Home, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	homes := []models.Home{}
	if err := cursor.All(ctx, &homes); err != nil {
		return nil, fmt.Errorf("failed to decode homes: %w", err)
	}
	return homes, nil
}

func (r *mongoHomeRepo) GetByUserID(ctx context.Context, userID string) ([]models.Home, error) {
	homes, err := r.find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list homes of %s: %w", userID, err)
	}
	return homes, nil
}

func (r *mongoHomeRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Home, error) {
	if len(ids) == 0 {
		return []models.Home{}, nil
	}
	homes, err := r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch homes by ids: %w", err)
	}
	return homes, nil
}

func (r *mongoHomeRepo) GetAll(ctx context.Context) ([]models.Home, error) {
	homes, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}
	return homes, nil
}

func editableFields(h *models.Home) bson.M {
	return bson.M{
		"nickName":           h.NickName,
		"address":            h.Address,
		"city":               h.City,
		"state":              h.State,
		"zipcode":            h.Zipcode,
		"numBeds":            h.NumBeds,
		"numBaths":           h.NumBaths,
		"sheetsProvided":     h.SheetsProvided,
		"towelsProvided":     h.TowelsProvided,
		"keyPadCode":         h.KeyPadCode,
		"keyLocation":        h.KeyLocation,
		"trashLocation":      h.TrashLocation,
		"recyclingLocation":  h.RecyclingLocation,
		"compostLocation":    h.CompostLocation,
		"contact":            h.Contact,
		"specialNotes":       h.SpecialNotes,
		"timeToBeCompleted":  h.TimeToBeCompleted,
		"cleanersNeeded":     h.CleanersNeeded,
		"latitude":           h.Latitude,
		"longitude":          h.Longitude,
		"outsideServiceArea": h.OutsideServiceArea,
		"updatedAt":          h.UpdatedAt,
	}
}

func (r *mongoHomeRepo) Update(ctx context.Context, home *models.Home) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	home.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": home.ID}, bson.M{"$set": editableFields(home)})
	if err != nil {
		return fmt.Errorf("failed to update home %s: %w", home.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("home %s: %w", home.ID, database.ErrNotFound)
	}
	return nil
}

func (r *mongoHomeRepo) updateReturning(ctx context.Context, id string, update bson.M) (*models.Home, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update["$set"] = bson.M{"updatedAt": time.Now().UTC()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var h models.Home
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to update home %s: %w", id, database.NotFound(err))
	}
	return &h, nil
}

func (r *mongoHomeRepo) AddPhoto(ctx context.Context, id, publicID string) (*models.Home, error) {
	return r.updateReturning(ctx, id, bson.M{"$push": bson.M{"photoIds": publicID}})
}

func (r *mongoHomeRepo) AddPreferredCleaner(ctx context.Context, id, cleanerID string) (*models.Home, error) {
	return r.updateReturning(ctx, id, bson.M{"$addToSet": bson.M{"preferredCleanerIds": cleanerID}})
}

func (r *mongoHomeRepo) RemovePreferredCleaner(ctx context.Context, id, cleanerID string) (*models.Home, error) {
	return r.updateReturning(ctx, id, bson.M{"$pull": bson.M{"preferredCleanerIds": cleanerID}})
}

func (r *mongoHomeRepo) SetOutsideServiceArea(ctx context.Context, id string, outside bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"outsideServiceArea": outside, "updatedAt": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to flag home %s: %w", id, err)
	}
	return nil
}

func (r *mongoHomeRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete home %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("home %s: %w", id, database.ErrNotFound)
	}
	return nil
}
