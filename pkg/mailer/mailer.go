package mailer

import (
	"fmt"
	"strings"

	"github.com/hazique/iotstore-backend/config"
	"github.com/hazique/iotstore-backend/internal/app/model"
	"github.com/hazique/iotstore-backend/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends operational email through SMTP.
type Mailer struct {
	cfg    *config.SMTPConfig
	dialer *gomail.Dialer
}

func New(cfg *config.SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendLowStockAlert emails the warehouse contact the list of products that
// dropped below the restock threshold.
func (m *Mailer) SendLowStockAlert(recipient string, products []model.LowStockProduct) error {
	if recipient == "" {
		logger.Warn("Low stock alert recipient not configured, skipping email", nil)
		return nil
	}

	logger.Info("Sending low stock alert email", map[string]interface{}{
		"recipient":      recipient,
		"products_count": len(products),
	})

	var body strings.Builder
	body.WriteString("The following products are running low on stock:\n\n")
	for _, p := range products {
		body.WriteString(fmt.Sprintf("- %s (ID %d): %d left\n", p.Name, p.ID, p.Quantity))
	}
	body.WriteString("\nPlease restock soon.\n")

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", fmt.Sprintf("Low stock alert: %d product(s) need restocking", len(products)))
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Error("Failed to send low stock alert email", err, map[string]interface{}{
			"recipient": recipient,
		})
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}

	logger.Info("Low stock alert email sent", map[string]interface{}{
		"recipient": recipient,
	})
	return nil
}
