package infrastructure

import (
	"context"
	"time"

	"shopit/storefront-service/internal/app/storefront/entity"
)

// MessagePublisher - отправка событий в Kafka
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// UploadOptions - папка и ширина (crop scale) загружаемого изображения; Width 0 - без трансформации
type UploadOptions struct {
	Folder string
	Width  int
}

// ImageHost - внешний хостинг изображений (Cloudinary)
type ImageHost interface {
	Upload(ctx context.Context, file string, opts UploadOptions) (entity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}

// PaymentGateway - платежный провайдер (Stripe)
type PaymentGateway interface {
	// CreatePaymentIntent принимает сумму в минимальных единицах валюты и возвращает client_secret
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
	PublishableKey() string
}

// ProductCache - кэш карточек товара
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	SetProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// TokenBlacklist - отозванные токены, хранятся до истечения срока.
// Revoke отзывает один токен (logout), RevokeUser - все токены пользователя,
// выпущенные не позже at (смена роли, удаление).
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	IsRevoked(ctx context.Context, token, userID string, issuedAt time.Time) (bool, error)
}
