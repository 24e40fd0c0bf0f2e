package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopit/pkg/logger"
	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository создает репозиторий пользователей.
// Email уникален, по reset_password_token ищем при сбросе пароля.
func NewUserRepository(db *mongo.Database) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetName("reset_token_idx").SetSparse(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Str("collection", "users").Msg("Failed to create indexes")
	}

	return &userRepository{collection: collection}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "users")
	defer timer.ObserveDuration()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByResetToken ищет пользователя по sha256 токена, срок которого еще не истек
func (r *userRepository) GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_token":  hashedToken,
		"reset_password_expire": bson.M{"$gt": now},
	})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer timer.ObserveDuration()

	var user entity.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// List возвращает всех пользователей, отсортированных по имени
func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []entity.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// Update сохраняет профиль целиком; пустой токен сброса удаляется из документа
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "users")
	defer timer.ObserveDuration()

	set := bson.M{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.PasswordHash,
		"avatar":   user.Avatar,
		"role":     user.Role,
	}
	update := bson.M{"$set": set}

	if user.ResetPasswordToken != "" && user.ResetPasswordExpire != nil {
		set["reset_password_token"] = user.ResetPasswordToken
		set["reset_password_expire"] = *user.ResetPasswordExpire
	} else {
		update["$unset"] = bson.M{"reset_password_token": "", "reset_password_expire": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "users")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}
