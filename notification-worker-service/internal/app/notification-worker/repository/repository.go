package repository

import (
	"context"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
)

const serviceName = "notification-worker"

// UserRepository - обслуживание коллекции users
type UserRepository interface {
	// PurgeExpiredResetTokens стирает просроченные токены сброса пароля
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ProductRepository - чтение остатков товаров
type ProductRepository interface {
	// ListLowStock возвращает товары с stock <= threshold
	ListLowStock(ctx context.Context, threshold int) ([]entity.LowStockProduct, error)
}

// ProcessedEventRepository - дедупликация событий в Redis
type ProcessedEventRepository interface {
	// MarkProcessed возвращает false, если событие уже было отмечено
	MarkProcessed(ctx context.Context, eventID string) (bool, error)

	// Unmark снимает отметку, чтобы повторная доставка обработалась
	Unmark(ctx context.Context, eventID string) error
}
