package scheduler

import (
	"github.com/hazique/iotstore-backend/internal/app/service"
	"github.com/hazique/iotstore-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// LowStockScheduler runs the daily catalog-wide low stock sweep.
type LowStockScheduler struct {
	cron         *cron.Cron
	alertService service.AlertService
	threshold    int
}

func NewLowStockScheduler(alertService service.AlertService, threshold int) *LowStockScheduler {
	return &LowStockScheduler{
		cron:         cron.New(),
		alertService: alertService,
		threshold:    threshold,
	}
}

// Start registers the sweep at 09:00 every day.
func (s *LowStockScheduler) Start() error {
	_, err := s.cron.AddFunc("0 9 * * *", func() {
		logger.Info("Starting scheduled low stock sweep", nil)

		if err := s.alertService.SweepLowStock(s.threshold); err != nil {
			logger.Error("Scheduled low stock sweep failed", err)
			return
		}

		logger.Info("Scheduled low stock sweep completed", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for low stock sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Low stock scheduler started successfully (daily at 9:00 AM)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *LowStockScheduler) Stop() {
	logger.Info("Stopping low stock scheduler...", nil)
	s.cron.Stop()
	logger.Info("Low stock scheduler stopped", nil)
}
