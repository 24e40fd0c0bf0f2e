package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Порог отставания consumer, после которого в healthcheck выводится предупреждение
const maxConsumerLag = 1000

type mongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type consumerStats interface {
	GetStats() kafka.ReaderStats
}

type HealthCheckHandler struct {
	mongo    mongoPinger
	redis    redisPinger
	consumer consumerStats
}

func NewHealthCheckHandler(mongo mongoPinger, redis redisPinger, consumer consumerStats) *HealthCheckHandler {
	return &HealthCheckHandler{
		mongo:    mongo,
		redis:    redis,
		consumer: consumer,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkMongo(ctx); err != nil {
		checks["mongodb"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["mongodb"] = "healthy"
	}

	if err := h.checkRedis(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["redis"] = "healthy"
	}

	if err := h.checkConsumer(); err != nil {
		checks["kafka_consumer"] = "warning: " + err.Error()
	} else {
		checks["kafka_consumer"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkMongo(ctx); err != nil {
		http.Error(w, "mongodb not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.checkRedis(ctx); err != nil {
		http.Error(w, "redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

func (h *HealthCheckHandler) checkMongo(ctx context.Context) error {
	return h.mongo.Ping(ctx, readpref.Primary())
}

func (h *HealthCheckHandler) checkRedis(ctx context.Context) error {
	return h.redis.Ping(ctx).Err()
}

func (h *HealthCheckHandler) checkConsumer() error {
	if h.consumer == nil {
		return nil
	}

	stats := h.consumer.GetStats()
	if stats.Lag > maxConsumerLag {
		return fmt.Errorf("consumer lag is %d", stats.Lag)
	}
	return nil
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
}
