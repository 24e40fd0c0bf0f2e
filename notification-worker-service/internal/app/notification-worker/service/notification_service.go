package service

import (
	"context"
	"fmt"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/notification-worker-service/internal/app/notification-worker/repository"
	"shopit/pkg/logger"
	"shopit/pkg/mailer"
	"shopit/pkg/metrics"

	"github.com/shopspring/decimal"
)

const serviceName = "notification-worker"

// NotificationService отправляет письма по событиям ORDER_CREATED,
// ORDER_STATUS_CHANGED и USER_REGISTERED
type NotificationService struct {
	processed   repository.ProcessedEventRepository
	mailer      mailer.Mailer
	frontendURL string
}

func NewNotificationService(
	processed repository.ProcessedEventRepository,
	mail mailer.Mailer,
	frontendURL string,
) *NotificationService {
	return &NotificationService{
		processed:   processed,
		mailer:      mail,
		frontendURL: frontendURL,
	}
}

// HandleEvent возвращает ошибку только если письмо нужно отправить повторно
func (s *NotificationService) HandleEvent(ctx context.Context, event *entity.ShopEvent) error {
	start := time.Now()
	defer func() {
		metrics.WorkerProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	msg, kind, ok := s.buildMessage(event)
	if !ok {
		logger.Info().
			Str("event_type", event.EventType).
			Str("event_id", event.EventID).
			Msg("Skipping event")
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "skipped").Inc()
		return nil
	}

	if event.EventID != "" {
		first, err := s.processed.MarkProcessed(ctx, event.EventID)
		if err != nil {
			metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()
			return err
		}
		if !first {
			logger.Info().
				Str("event_type", event.EventType).
				Str("event_id", event.EventID).
				Msg("Duplicate event, email already sent")
			metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "duplicate").Inc()
			return nil
		}
	} else {
		logger.Warn().Str("event_type", event.EventType).Msg("Event without event_id, deduplication disabled")
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues(serviceName, kind, "failed").Inc()
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()

		if event.EventID != "" {
			if unmarkErr := s.processed.Unmark(ctx, event.EventID); unmarkErr != nil {
				logger.Warn().Err(unmarkErr).Str("event_id", event.EventID).Msg("Failed to unmark event")
			}
		}
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	metrics.EmailsSent.WithLabelValues(serviceName, kind, "success").Inc()
	metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "success").Inc()

	logger.Info().
		Str("event_type", event.EventType).
		Str("event_id", event.EventID).
		Str("user_id", event.UserID).
		Msg("Notification sent")

	return nil
}

// buildMessage собирает письмо; ok=false для неизвестных событий и событий без адреса
func (s *NotificationService) buildMessage(event *entity.ShopEvent) (mailer.Message, string, bool) {
	if event.Email == "" {
		return mailer.Message{}, "", false
	}

	name := event.Name
	if name == "" {
		name = "customer"
	}

	switch event.EventType {
	case entity.EventUserRegistered:
		return mailer.Message{
			To:      event.Email,
			Subject: "Welcome to ShopIT",
			Body: fmt.Sprintf(
				"Hello %s,\n\nThank you for creating an account at ShopIT.\nStart shopping: %s\n",
				name, s.frontendURL,
			),
		}, "welcome", true

	case entity.EventOrderCreated:
		return mailer.Message{
			To:      event.Email,
			Subject: "ShopIT order confirmation",
			Body: fmt.Sprintf(
				"Hello %s,\n\nYour order %s with %d item(s) has been placed.\nTotal: $%s\n\nTrack it here: %s\n",
				name, event.OrderID, event.ItemsCount, formatAmount(event.TotalPrice), s.orderURL(event.OrderID),
			),
		}, "order_confirmation", true

	case entity.EventOrderStatusChanged:
		return mailer.Message{
			To:      event.Email,
			Subject: fmt.Sprintf("ShopIT order %s is %s", event.OrderID, event.OrderStatus),
			Body: fmt.Sprintf(
				"Hello %s,\n\nThe status of your order %s changed to %s.\n\nDetails: %s\n",
				name, event.OrderID, event.OrderStatus, s.orderURL(event.OrderID),
			),
		}, "order_status", true
	}

	return mailer.Message{}, "", false
}

func (s *NotificationService) orderURL(orderID string) string {
	return s.frontendURL + "/order/" + orderID
}

func formatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
