package service

import (
	"context"
	"encoding/json"
	"time"

	"shopit/pkg/logger"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"

	"github.com/google/uuid"
)

// publishEvent отправляет событие в Kafka. Ошибка только логируется:
// письмо не должно ломать основной сценарий.
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, event entity.ShopEvent) {
	if publisher == nil {
		return
	}

	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal event")
		return
	}

	if err := publisher.PublishMessage(ctx, event.UserID, data); err != nil {
		logger.Warn().Err(err).
			Str("event_type", event.EventType).
			Str("event_id", event.EventID).
			Msg("Failed to publish event")
	}
}
