package userRepo

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

func (r *MongoUserRepo) updateWithOperator(ctx context.Context, id, operator string, updateDoc bson.M) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{operator: updateDoc}
	if operator == "$set" {
		updateDoc["updatedAt"] = time.Now().UTC()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now().UTC()}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// SetDevices replaces the device list only.
func (r *MongoUserRepo) SetDevices(ctx context.Context, id string, devices []models.Device) error {
	if devices == nil {
		devices = []models.Device{}
	}
	return r.updateWithOperator(ctx, id, "$set", bson.M{"devices": devices})
}

// ClearDeviceToken blanks the token hash of one device.
func (r *MongoUserRepo) ClearDeviceToken(ctx context.Context, id, deviceID string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "devices.deviceId": deviceID}
	update := bson.M{"$set": bson.M{"devices.$[d].tokenHash": "", "updatedAt": time.Now().UTC()}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.deviceId": deviceID}},
	})
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to clear device token for %s: %w", id, err)
	}
	return nil
}

// ClearAllDeviceTokens blanks the token hash of every device.
func (r *MongoUserRepo) ClearAllDeviceTokens(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	// $[] needs the array to exist.
	filter := bson.M{"id": id, "devices.0": bson.M{"$exists": true}}
	update := bson.M{"$set": bson.M{"devices.$[].tokenHash": "", "updatedAt": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to clear device tokens for %s: %w", id, err)
	}
	return nil
}

func (r *MongoUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.updateWithOperator(ctx, id, "$set", bson.M{"fcmToken": token})
}

func (r *MongoUserRepo) SetStripeAccount(ctx context.Context, id, accountID string) error {
	return r.updateWithOperator(ctx, id, "$set", bson.M{"stripeAccountId": accountID})
}

// SetTermsAcceptedVersion never lowers the stored version.
func (r *MongoUserRepo) SetTermsAcceptedVersion(ctx context.Context, id string, version int) error {
	return r.updateWithOperator(ctx, id, "$max", bson.M{"termsAcceptedVersion": version})
}

// SetFrozen flips accountFrozen only when it currently holds the opposite
// value, so two moderators cannot both apply the same action.
func (r *MongoUserRepo) SetFrozen(ctx context.Context, id string, frozen bool, at time.Time, reason string) (bool, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	var update bson.M
	if frozen {
		update = bson.M{"$set": bson.M{
			"accountFrozen":       true,
			"accountFrozenAt":     at,
			"accountFrozenReason": reason,
			"updatedAt":           now,
		}}
	} else {
		update = bson.M{
			"$set":   bson.M{"accountFrozen": false, "updatedAt": now},
			"$unset": bson.M{"accountFrozenAt": "", "accountFrozenReason": ""},
		}
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "accountFrozen": !frozen}, update)
	if err != nil {
		return false, fmt.Errorf("failed to set frozen state for %s: %w", id, err)
	}
	return result.ModifiedCount == 1, nil
}

// AddRating folds one rating into the stored average in a single pipeline
// update, rounding to two decimals.
func (r *MongoUserRepo) AddRating(ctx context.Context, id string, rating int) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	count := bson.M{"$ifNull": bson.A{"$reviewCount", 0}}
	avg := bson.M{"$ifNull": bson.A{"$rating", 0}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating": bson.M{"$round": bson.A{
				bson.M{"$divide": bson.A{
					bson.M{"$add": bson.A{bson.M{"$multiply": bson.A{avg, count}}, rating}},
					bson.M{"$add": bson.A{count, 1}},
				}},
				2,
			}},
			"reviewCount": bson.M{"$add": bson.A{count, 1}},
			"updatedAt":   time.Now().UTC(),
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, pipeline, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to add rating for %s: %w", id, database.NotFound(err))
	}
	return &u, nil
}
