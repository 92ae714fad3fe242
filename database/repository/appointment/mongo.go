package appointmentRepo

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

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns an AppointmentRepository backed by MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	repo := &mongoAppointmentRepo{coll: database.Collection("appointments")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create appointment indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "homeId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "employeesAssigned", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "hasBeenAssigned", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if appt.EmployeesAssigned == nil {
		appt.EmployeesAssigned = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", database.Duplicate(err))
	}
	return nil
}

func (r *mongoAppointmentRepo) findOne(ctx context.Context, filter bson.M) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, filter).Decode(&appt); err != nil {
		return nil, database.NotFound(err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return appt, nil
}

func (r *mongoAppointmentRepo) GetByHomeAndDate(ctx context.Context, homeID, date string) (*models.Appointment, error) {
	appt, err := r.findOne(ctx, bson.M{"homeId": homeID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment for home %s on %s: %w", homeID, date, err)
	}
	return appt, nil
}

func (r *mongoAppointmentRepo) GetByHomeID(ctx context.Context, homeID string) ([]models.Appointment, error) {
	appts, err := r.find(ctx, bson.M{"homeId": homeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments of home %s: %w", homeID, err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) GetByUserID(ctx context.Context, userID string) ([]models.Appointment, error) {
	appts, err := r.find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments of user %s: %w", userID, err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) GetOpen(ctx context.Context, fromDate string) ([]models.Appointment, error) {
	filter := bson.M{
		"date":            bson.M{"$gte": fromDate},
		"completed":       false,
		"hasBeenAssigned": false,
	}
	appts, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list open appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) GetByCleaner(ctx context.Context, cleanerID, fromDate string) ([]models.Appointment, error) {
	filter := bson.M{"employeesAssigned": cleanerID}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
		filter["completed"] = false
	}
	appts, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments of cleaner %s: %w", cleanerID, err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) SetReminderTask(ctx context.Context, id, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"reminderTaskId": taskID, "updatedAt": time.Now().UTC()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to store reminder of %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *mongoAppointmentRepo) ApplyChange(ctx context.Context, id string, change models.AppointmentChange) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "paid": false, "completed": false}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if change.BringSheets != nil {
		filter["bringSheets"] = !*change.BringSheets
		set["bringSheets"] = *change.BringSheets
	}
	if change.BringTowels != nil {
		filter["bringTowels"] = !*change.BringTowels
		set["bringTowels"] = *change.BringTowels
	}
	if change.ToWindow != "" {
		filter["timeToBeCompleted"] = change.FromWindow
		set["timeToBeCompleted"] = change.ToWindow
	}
	update := bson.M{"$set": set}
	if change.Delta != 0 {
		update["$inc"] = bson.M{"price": change.Delta}
		// The intent was created for the old amount.
		update["$unset"] = bson.M{"paymentIntentId": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt); err != nil {
		return nil, fmt.Errorf("failed to change appointment %s: %w", id, database.NotFound(err))
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) conditionalSet(ctx context.Context, filter, set bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update appointment %v: %w", filter["id"], err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoAppointmentRepo) SetPaymentIntent(ctx context.Context, id, intentID string, price int64) (bool, error) {
	return r.conditionalSet(ctx,
		bson.M{"id": id, "paid": false, "price": price},
		bson.M{"paymentIntentId": intentID})
}

func (r *mongoAppointmentRepo) MarkPaid(ctx context.Context, id, intentID string, price int64) (bool, error) {
	return r.conditionalSet(ctx,
		bson.M{"id": id, "paid": false, "paymentIntentId": intentID, "price": price},
		bson.M{"paid": true})
}

func (r *mongoAppointmentRepo) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	return r.conditionalSet(ctx,
		bson.M{"id": id, "completed": false},
		bson.M{"completed": true, "completedAt": at})
}

func (r *mongoAppointmentRepo) AssignCleaner(ctx context.Context, id, cleanerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Only match while a slot is open and the cleaner is not already on it.
	filter := bson.M{
		"id":                id,
		"completed":         false,
		"employeesAssigned": bson.M{"$ne": cleanerID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$employeesAssigned", bson.A{}}}},
			"$employeesNeeded",
		}},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"employeesAssigned": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$employeesAssigned", bson.A{}}},
				bson.A{cleanerID},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"hasBeenAssigned": bson.M{"$gte": bson.A{bson.M{"$size": "$employeesAssigned"}, "$employeesNeeded"}},
		}}},
	}
	result, err := r.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return false, fmt.Errorf("failed to assign cleaner %s to %s: %w", cleanerID, id, err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoAppointmentRepo) UnassignCleaner(ctx context.Context, id, cleanerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"employeesAssigned": cleanerID},
		"$set":  bson.M{"hasBeenAssigned": false, "updatedAt": time.Now().UTC()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to unassign cleaner %s from %s: %w", cleanerID, id, err)
	}
	return nil
}

func (r *mongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("appointment %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// Stats aggregates counters and money volumes over all appointments.
func (r *mongoAppointmentRepo) Stats(ctx context.Context, today string) (models.AppointmentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	upcoming := bson.M{"$and": bson.A{
		bson.M{"$gte": bson.A{"$date", today}},
		bson.M{"$eq": bson.A{"$completed", false}},
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"upcoming": bson.M{"$sum": bson.M{"$cond": bson.A{upcoming, 1, 0}}},
			"unassignedUpcoming": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{upcoming, bson.M{"$eq": bson.A{"$hasBeenAssigned", false}}}}, 1, 0,
			}}},
			"completed":       bson.M{"$sum": bson.M{"$cond": bson.A{"$completed", 1, 0}}},
			"bookedVolume":    bson.M{"$sum": "$price"},
			"collectedVolume": bson.M{"$sum": bson.M{"$cond": bson.A{"$paid", "$price", 0}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.AppointmentStats{}, fmt.Errorf("failed to aggregate appointment stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats models.AppointmentStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.AppointmentStats{}, fmt.Errorf("failed to decode appointment stats: %w", err)
		}
	}
	return stats, cursor.Err()
}
