package messageRepo

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

type mongoMessageRepo struct {
	coll *mongo.Collection
}

// NewMongoMessageRepo returns a MessageRepository backed by MongoDB.
func NewMongoMessageRepo() MessageRepository {
	repo := &mongoMessageRepo{coll: database.Collection("messages")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		utils.GetLogger().Error("failed to create message indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.ReadBy == nil {
		msg.ReadBy = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *mongoMessageRepo) GetByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of %s: %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	msgs := []models.Message{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}

func unread(userID string) bson.M {
	return bson.M{"senderId": bson.M{"$ne": userID}, "readBy": bson.M{"$ne": userID}}
}

func (r *mongoMessageRepo) MarkRead(ctx context.Context, conversationID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := unread(userID)
	filter["conversationId"] = conversationID
	if _, err := r.coll.UpdateMany(ctx, filter, bson.M{"$addToSet": bson.M{"readBy": userID}}); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (r *mongoMessageRepo) CountUnread(ctx context.Context, conversationID, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := unread(userID)
	filter["conversationId"] = conversationID
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

func (r *mongoMessageRepo) CountUnreadIn(ctx context.Context, conversationIDs []string, userID string) (int64, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := unread(userID)
	filter["conversationId"] = bson.M{"$in": conversationIDs}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}
