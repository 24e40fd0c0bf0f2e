package repository

import (
	"context"
	"fmt"
	"time"

	"shopit/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection("users")}
}

func (r *userRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "users")
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{"reset_password_expire": bson.M{"$lte": now}},
		bson.M{"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""}},
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return 0, fmt.Errorf("failed to purge reset tokens: %w", err)
	}

	return result.ModifiedCount, nil
}
