package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName        = "storefront-service"
	productKeyPrefix   = "product"
	blacklistKeyPrefix = "token_blacklist"
	userRevokedPrefix  = "user_tokens_revoked"
)

// RedisCache - кэш карточек товара и черный список токенов
type RedisCache struct {
	client     *redis.Client
	productTTL time.Duration
}

var (
	_ infrastructure.ProductCache   = (*RedisCache)(nil)
	_ infrastructure.TokenBlacklist = (*RedisCache)(nil)
)

func NewRedisCache(client *redis.Client, productTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, productTTL: productTTL}
}

func productKey(id string) string {
	return productKeyPrefix + ":" + id
}

// GetProduct возвращает nil, nil при промахе
func (r *RedisCache) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, productKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	metrics.RecordCacheHit(serviceName, productKeyPrefix)
	return &product, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := r.client.Set(ctx, productKey(product.ID.Hex()), data, r.productTTL).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set product in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) DeleteProduct(ctx context.Context, id string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}

// В ключе храним хэш токена, а не сам JWT
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

// Revoke помещает токен в черный список до истечения его срока
func (r *RedisCache) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, blacklistKey(token), 1, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func userRevokedKey(userID string) string {
	return userRevokedPrefix + ":" + userID
}

// RevokeUser запоминает момент отзыва; ttl - срок жизни токена
func (r *RedisCache) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, userRevokedKey(userID), at.Unix(), ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsRevoked проверяет сам токен и отзыв всех токенов пользователя одним MGET.
// iat в JWT с точностью до секунды, токен той же секунды тоже считается отозванным.
func (r *RedisCache) IsRevoked(ctx context.Context, token, userID string, issuedAt time.Time) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	values, err := r.client.MGet(ctx, blacklistKey(token), userRevokedKey(userID)).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	if values[0] != nil {
		return true, nil
	}

	raw, ok := values[1].(string)
	if !ok {
		return false, nil
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("invalid user revocation mark %q: %w", raw, err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}
