package requestRepo

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

type mongoRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRequestRepo returns a RequestRepository backed by pending_requests.
func NewMongoRequestRepo() RequestRepository {
	repo := &mongoRequestRepo{coll: database.Collection("pending_requests")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "appointmentId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "homeownerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "cleanerId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		utils.GetLogger().Error("failed to create pending request indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoRequestRepo) Create(ctx context.Context, req *models.PendingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create pending request: %w", err)
	}
	return nil
}

func (r *mongoRequestRepo) findOne(ctx context.Context, filter bson.M) (*models.PendingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.PendingRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&req); err != nil {
		return nil, database.NotFound(err)
	}
	return &req, nil
}

func (r *mongoRequestRepo) find(ctx context.Context, filter bson.M) ([]models.PendingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reqs := []models.PendingRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode pending requests: %w", err)
	}
	return reqs, nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.PendingRequest, error) {
	req, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending request %s: %w", id, err)
	}
	return req, nil
}

func (r *mongoRequestRepo) FindActive(ctx context.Context, appointmentID, cleanerID string) (*models.PendingRequest, error) {
	req, err := r.findOne(ctx, bson.M{
		"appointmentId": appointmentID,
		"cleanerId":     cleanerID,
		"status":        models.RequestPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find pending request: %w", err)
	}
	return req, nil
}

func (r *mongoRequestRepo) GetPendingByAppointment(ctx context.Context, appointmentID string) ([]models.PendingRequest, error) {
	reqs, err := r.find(ctx, bson.M{"appointmentId": appointmentID, "status": models.RequestPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of appointment %s: %w", appointmentID, err)
	}
	return reqs, nil
}

func (r *mongoRequestRepo) GetPendingForHomeowner(ctx context.Context, homeownerID string) ([]models.PendingRequest, error) {
	reqs, err := r.find(ctx, bson.M{"homeownerId": homeownerID, "status": models.RequestPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of homeowner %s: %w", homeownerID, err)
	}
	return reqs, nil
}

func (r *mongoRequestRepo) GetByCleaner(ctx context.Context, cleanerID, status string) ([]models.PendingRequest, error) {
	filter := bson.M{"cleanerId": cleanerID}
	if status != "" {
		filter["status"] = status
	}
	reqs, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of cleaner %s: %w", cleanerID, err)
	}
	return reqs, nil
}

func decided(status string) bson.M {
	return bson.M{"$set": bson.M{"status": status, "decidedAt": time.Now().UTC()}}
}

func (r *mongoRequestRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.RequestPending}, decided(status))
	if err != nil {
		return false, fmt.Errorf("failed to set request %s to %s: %w", id, status, err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoRequestRepo) updateMany(ctx context.Context, filter bson.M, status string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter["status"] = models.RequestPending
	result, err := r.coll.UpdateMany(ctx, filter, decided(status))
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoRequestRepo) SetStatusForAppointment(ctx context.Context, appointmentID, exceptID, status string) (int64, error) {
	filter := bson.M{"appointmentId": appointmentID}
	if exceptID != "" {
		filter["id"] = bson.M{"$ne": exceptID}
	}
	n, err := r.updateMany(ctx, filter, status)
	if err != nil {
		return 0, fmt.Errorf("failed to set requests of appointment %s to %s: %w", appointmentID, status, err)
	}
	return n, nil
}

func (r *mongoRequestRepo) SetStatusForCleaner(ctx context.Context, cleanerID, status string) (int64, error) {
	n, err := r.updateMany(ctx, bson.M{"cleanerId": cleanerID}, status)
	if err != nil {
		return 0, fmt.Errorf("failed to set requests of cleaner %s to %s: %w", cleanerID, status, err)
	}
	return n, nil
}

func (r *mongoRequestRepo) ExpireBefore(ctx context.Context, date string) (int64, error) {
	n, err := r.updateMany(ctx, bson.M{"appointmentDate": bson.M{"$lt": date}}, models.RequestExpired)
	if err != nil {
		return 0, fmt.Errorf("failed to expire requests before %s: %w", date, err)
	}
	return n, nil
}
