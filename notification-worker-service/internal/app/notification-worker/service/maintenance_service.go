package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/repository"
	"shopit/pkg/logger"
	"shopit/pkg/mailer"
	"shopit/pkg/metrics"
)

const (
	JobPurgeResetTokens = "purge_reset_tokens"
	JobLowStockReport   = "low_stock_report"
)

type MaintenanceService struct {
	users             repository.UserRepository
	products          repository.ProductRepository
	mailer            mailer.Mailer
	adminEmail        string
	lowStockThreshold int
	now               func() time.Time
}

func NewMaintenanceService(
	users repository.UserRepository,
	products repository.ProductRepository,
	mail mailer.Mailer,
	adminEmail string,
	lowStockThreshold int,
) *MaintenanceService {
	return &MaintenanceService{
		users:             users,
		products:          products,
		mailer:            mail,
		adminEmail:        adminEmail,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// PurgeExpiredResetTokens стирает токены сброса пароля с истекшим сроком
func (s *MaintenanceService) PurgeExpiredResetTokens(ctx context.Context) error {
	purged, err := s.users.PurgeExpiredResetTokens(ctx, s.now())
	if err != nil {
		metrics.WorkerJobRuns.WithLabelValues(JobPurgeResetTokens, "failed").Inc()
		return err
	}

	metrics.WorkerJobRuns.WithLabelValues(JobPurgeResetTokens, "success").Inc()
	logger.Info().Int64("purged", purged).Msg("Expired reset tokens purged")
	return nil
}

// SendLowStockReport отправляет администратору список товаров с малым остатком
func (s *MaintenanceService) SendLowStockReport(ctx context.Context) error {
	if s.adminEmail == "" {
		metrics.WorkerJobRuns.WithLabelValues(JobLowStockReport, "skipped").Inc()
		logger.Debug().Msg("ADMIN_EMAIL is not set, low stock report skipped")
		return nil
	}

	products, err := s.products.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		metrics.WorkerJobRuns.WithLabelValues(JobLowStockReport, "failed").Inc()
		return err
	}

	if len(products) == 0 {
		metrics.WorkerJobRuns.WithLabelValues(JobLowStockReport, "skipped").Inc()
		logger.Info().Int("threshold", s.lowStockThreshold).Msg("No low stock products")
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Products with stock at or below %d:\n\n", s.lowStockThreshold)
	for _, p := range products {
		fmt.Fprintf(&body, "- %s (%s): %d\n", p.Name, p.ID.Hex(), p.Stock)
	}

	msg := mailer.Message{
		To:      s.adminEmail,
		Subject: fmt.Sprintf("ShopIT low stock report: %d product(s)", len(products)),
		Body:    body.String(),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues(serviceName, "low_stock_report", "failed").Inc()
		metrics.WorkerJobRuns.WithLabelValues(JobLowStockReport, "failed").Inc()
		return fmt.Errorf("failed to send low stock report: %w", err)
	}

	metrics.EmailsSent.WithLabelValues(serviceName, "low_stock_report", "success").Inc()
	metrics.WorkerJobRuns.WithLabelValues(JobLowStockReport, "success").Inc()
	logger.Info().Int("products", len(products)).Msg("Low stock report sent")
	return nil
}
