package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/notification-worker-service/internal/app/notification-worker/service"
	"shopit/pkg/logger"
	"shopit/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const (
	serviceName = "notification-worker"

	defaultRetryBackoffMin = time.Second
	defaultRetryBackoffMax = 30 * time.Second
)

// messageReader - часть kafka.Reader, которой пользуется consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaConsumer читает shop_events и передает события в NotificationService
type KafkaConsumer struct {
	reader   messageReader
	notifier service.NotificationServiceInterface
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}

	// пауза между повторами сообщения, которое не удалось обработать
	retryBackoffMin time.Duration
	retryBackoffMax time.Duration
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	notifier service.NotificationServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.FirstOffset,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})

	return newKafkaConsumer(reader, topic, groupID, notifier)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, notifier service.NotificationServiceInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:   reader,
		notifier: notifier,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),

		retryBackoffMin: defaultRetryBackoffMin,
		retryBackoffMax: defaultRetryBackoffMax,
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и закрывает reader
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Таймаут ожидания - нормальная ситуация для пустого топика
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			metrics.RecordKafkaError(serviceName, c.topic, "fetch")
			logger.Error().Err(err).Msg("Error fetching message")
			time.Sleep(time.Second)
			continue
		}

		start := time.Now()
		if !c.processWithRetry(ctx, message) {
			// Остановлены без коммита: после рестарта или ребаланса сообщение придет снова
			return
		}
		metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			metrics.RecordKafkaError(serviceName, c.topic, "commit")
			logger.Error().Err(err).Msg("Error committing message")
		}
	}
}

// processWithRetry повторяет обработку одного сообщения, пока она не пройдет.
// Коммит в Kafka накопительный по партиции, поэтому следующее сообщение не
// читается, пока текущее не обработано. false - consumer остановлен.
func (c *KafkaConsumer) processWithRetry(ctx context.Context, message kafka.Message) bool {
	backoff := c.retryBackoffMin
	for attempt := 1; ; attempt++ {
		err := c.processMessage(ctx, message)
		if err == nil {
			return true
		}

		metrics.RecordKafkaError(serviceName, c.topic, "process")
		logger.Error().Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Int("attempt", attempt).
			Dur("retry_in", backoff).
			Msg("Error processing message")

		timer := time.NewTimer(backoff)
		select {
		case <-c.stopChan:
			timer.Stop()
			return false
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		backoff *= 2
		if backoff > c.retryBackoffMax {
			backoff = c.retryBackoffMax
		}
	}
}

// processMessage разбирает событие; битые сообщения пропускаются
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ShopEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		logger.Warn().Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Msg("Skipping malformed event")
		metrics.WorkerEventsProcessed.WithLabelValues("unknown", "malformed").Inc()
		return nil
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("event_id", event.EventID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received event")

	return c.notifier.HandleEvent(ctx, &event)
}

// GetStats возвращает статистику reader
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
