package processor

import (
	"context"
	"log"

	"shopit/notification-worker-service/internal/app/notification-worker/config"
	"shopit/notification-worker-service/internal/app/notification-worker/service"
	"shopit/pkg/logger"

	"github.com/robfig/cron/v3"
)

type CronScheduler struct {
	cron        *cron.Cron
	maintenance service.MaintenanceServiceInterface
}

func NewCronScheduler(maintenance service.MaintenanceServiceInterface) *CronScheduler {
	cronLogger := log.New(logger.With().Str("component", "cron").Logger(), "", 0)

	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cron.PrintfLogger(cronLogger)),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &CronScheduler{
		cron:        c,
		maintenance: maintenance,
	}
}

// Start регистрирует задачи и запускает планировщик
func (s *CronScheduler) Start(ctx context.Context, schedules config.CronConfig) error {
	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{service.JobPurgeResetTokens, schedules.PurgeResetTokens, s.maintenance.PurgeExpiredResetTokens},
		{service.JobLowStockReport, schedules.LowStockReport, s.maintenance.SendLowStockReport},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.schedule, func() {
			logger.Info().Str("job", job.name).Msg("Cron job triggered")
			if err := job.run(ctx); err != nil {
				logger.Error().Err(err).Str("job", job.name).Msg("Cron job failed")
			}
		}); err != nil {
			return err
		}
		logger.Info().Str("job", job.name).Str("schedule", job.schedule).Msg("Cron job scheduled")
	}

	s.cron.Start()
	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
