package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/infrastructure/config"
)

// WhatsAppNotifier posts operational messages to a WhatsApp gateway
// webhook. Used for payout notifications to the finance channel.
type WhatsAppNotifier struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	logger *zap.Logger
}

// NewWhatsAppNotifier creates a new WhatsAppNotifier
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type whatsappPayload struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// Send posts one message to the configured webhook
func (n *WhatsAppNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(whatsappPayload{
		Channel: n.cfg.Channel,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Notification delivered",
		zap.String("channel", n.cfg.Channel))
	return nil
}

// Ensure WhatsAppNotifier implements notify.Notifier
var _ notify.Notifier = (*WhatsAppNotifier)(nil)
