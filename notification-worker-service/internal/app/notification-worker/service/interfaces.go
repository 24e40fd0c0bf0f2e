package service

import (
	"context"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
)

// NotificationServiceInterface отвечает письмами на события витрины
type NotificationServiceInterface interface {
	HandleEvent(ctx context.Context, event *entity.ShopEvent) error
}

// MaintenanceServiceInterface - периодические задачи воркера
type MaintenanceServiceInterface interface {
	PurgeExpiredResetTokens(ctx context.Context) error
	SendLowStockReport(ctx context.Context) error
}
