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

type mongoConversationRepo struct {
	coll *mongo.Collection
}

// NewMongoConversationRepo returns a ConversationRepository backed by MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	repo := &mongoConversationRepo{coll: database.Collection("conversations")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participantIds", Value: 1}, {Key: "lastMessageAt", Value: -1}}},
	})
	if err != nil {
		utils.GetLogger().Error("failed to create conversation indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	conv.CreatedAt = now
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = now
	}
	if _, err := r.coll.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *mongoConversationRepo) findOne(ctx context.Context, filter bson.M) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conv models.Conversation
	if err := r.coll.FindOne(ctx, filter).Decode(&conv); err != nil {
		return nil, database.NotFound(err)
	}
	return &conv, nil
}

func (r *mongoConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation %s: %w", id, err)
	}
	return conv, nil
}

func (r *mongoConversationRepo) GetByParticipant(ctx context.Context, userID string) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"participantIds": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations of %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	convs := []models.Conversation{}
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}
	return convs, nil
}

func (r *mongoConversationRepo) FindDirect(ctx context.Context, a, b string) (*models.Conversation, error) {
	conv, err := r.findOne(ctx, bson.M{
		"type":           models.ConversationDirect,
		"participantIds": bson.M{"$all": bson.A{a, b}, "$size": 2},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation between %s and %s: %w", a, b, err)
	}
	return conv, nil
}

func (r *mongoConversationRepo) FindSupport(ctx context.Context, userID string) (*models.Conversation, error) {
	conv, err := r.findOne(ctx, bson.M{"type": models.ConversationSupport, "createdBy": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find support conversation of %s: %w", userID, err)
	}
	return conv, nil
}

func (r *mongoConversationRepo) Touch(ctx context.Context, id string, at time.Time, preview string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"lastMessageAt": at, "lastMessagePreview": preview}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to touch conversation %s: %w", id, err)
	}
	return nil
}

func (r *mongoConversationRepo) AddParticipants(ctx context.Context, id string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"participantIds": bson.M{"$each": userIDs}}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to add participants to %s: %w", id, err)
	}
	return nil
}
