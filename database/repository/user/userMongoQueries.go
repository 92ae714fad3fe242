package userRepo

import (
	"context"
	"fmt"
	"time"

	"cleanly/database"
	"cleanly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, database.NotFound(err)
	}
	if user.Devices == nil {
		user.Devices = []models.Device{}
	}
	return &user, nil
}

func (r *MongoUserRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return user, nil
}

// GetByIDs retrieves all users whose id is in ids.
func (r *MongoUserRepo) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	users, err := r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by ids: %w", err)
	}
	return users, nil
}

// GetByEmail retrieves a user by its email address.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", username, err)
	}
	return user, nil
}

// GetByType lists all users of a type ordered by creation time.
func (r *MongoUserRepo) GetByType(ctx context.Context, userType string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	users, err := r.find(ctx, bson.M{"type": userType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s users: %w", userType, err)
	}
	return users, nil
}

// CountByType counts users of a type. A nil frozen counts all of them.
func (r *MongoUserRepo) CountByType(ctx context.Context, userType string, frozen *bool) (int64, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"type": userType}
	if frozen != nil {
		filter["accountFrozen"] = *frozen
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s users: %w", userType, err)
	}
	return n, nil
}
