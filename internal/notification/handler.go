package notification

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/domain/order"
)

// OrderMailer sends the confirmation for a placed order.
type OrderMailer interface {
	SendOrderConfirmation(o order.Order) error
}

// Handler processes order events for sending notifications
type Handler struct {
	mailer OrderMailer
	logger *zap.Logger
}

func NewHandler(mailer OrderMailer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{mailer: mailer, logger: logger.Named("notifier")}
}

// HandleEvent processes an event from Kafka. Events other than OrderPlaced
// are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.PlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("failed to unmarshal event", zap.ByteString("key", key), zap.Error(err))
		return err
	}

	if event.EventType != order.EventOrderPlaced {
		return nil
	}
	return h.HandleOrderPlaced(ctx, event.Order)
}

// HandleOrderPlaced sends the confirmation email for o.
func (h *Handler) HandleOrderPlaced(_ context.Context, o order.Order) error {
	h.logger.Info("processing order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Int64("user_id", o.User.UserID),
		zap.Int("items", o.ItemsCount()),
	)

	if err := h.mailer.SendOrderConfirmation(o); err != nil {
		h.logger.Error("failed to send order confirmation",
			zap.String("to", o.User.Email),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
		return err
	}
	return nil
}
