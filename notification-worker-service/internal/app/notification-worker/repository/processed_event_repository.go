package repository

import (
	"context"
	"fmt"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

type processedEventRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProcessedEventRepository(client *redis.Client, ttl time.Duration) ProcessedEventRepository {
	return &processedEventRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *processedEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSetNX)
	defer timer.ObserveDuration()

	ok, err := r.client.SetNX(ctx, entity.GetRedisKeyForEvent(eventID), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSetNX)
		return false, fmt.Errorf("failed to mark event %s: %w", eventID, err)
	}

	return ok, nil
}

func (r *processedEventRepository) Unmark(ctx context.Context, eventID string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, entity.GetRedisKeyForEvent(eventID)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to unmark event %s: %w", eventID, err)
	}

	return nil
}
