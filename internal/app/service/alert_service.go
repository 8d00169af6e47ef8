package service

import (
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/internal/app/repository"
	"github.com/hazique/iotstore-backend/internal/ws"
	"github.com/hazique/iotstore-backend/pkg/logger"
)

// MailSender sends the low-stock email. Satisfied by pkg/mailer.
type MailSender interface {
	SendLowStockAlert(recipient string, products []model.LowStockProduct) error
}

// AlertService fans low-stock alerts out to email and the admin dashboard
// websocket. It satisfies LowStockNotifier for the order path and also
// backs the scheduled daily sweep.
type AlertService interface {
	LowStockNotifier
	SweepLowStock(threshold int) error
}

type alertService struct {
	productRepo repository.ProductRepository
	mail        MailSender
	hub         *ws.Hub
	recipient   string
}

func NewAlertService(
	productRepo repository.ProductRepository,
	mail MailSender,
	hub *ws.Hub,
	recipient string,
) AlertService {
	return &alertService{
		productRepo: productRepo,
		mail:        mail,
		hub:         hub,
		recipient:   recipient,
	}
}

// NotifyLowStock delivers an alert for the given products. Every channel
// is best effort; failures are logged and swallowed.
func (s *alertService) NotifyLowStock(products []model.LowStockProduct) {
	if len(products) == 0 {
		return
	}

	logger.Info("Dispatching low stock alert", map[string]interface{}{
		"products_count": len(products),
	})

	if s.mail != nil {
		if err := s.mail.SendLowStockAlert(s.recipient, products); err != nil {
			logger.Error("Low stock email failed", err, map[string]interface{}{
				"products_count": len(products),
			})
		}
	}

	if s.hub != nil {
		payload := map[string]interface{}{
			"type":     "low_stock_alert",
			"products": products,
		}
		if err := s.hub.Broadcast(payload); err != nil {
			logger.Error("Low stock websocket broadcast failed", err, nil)
		}
	}
}

// SweepLowStock scans the whole catalog and alerts on anything below the
// threshold. Used by the daily scheduler.
func (s *alertService) SweepLowStock(threshold int) error {
	logger.Info("Running low stock sweep", map[string]interface{}{
		"threshold": threshold,
	})

	products, err := s.productRepo.FindLowStock(threshold)
	if err != nil {
		logger.Error("Low stock sweep failed", err, map[string]interface{}{
			"threshold": threshold,
		})
		return err
	}

	if len(products) == 0 {
		logger.Info("Low stock sweep found nothing to report", nil)
		return nil
	}

	s.NotifyLowStock(products)
	return nil
}
