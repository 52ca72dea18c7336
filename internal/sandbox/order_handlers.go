package sandbox

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/order"
)

// OrderSink receives placed orders, e.g. the confirmation mailer.
type OrderSink interface {
	HandleOrderPlaced(ctx context.Context, o order.Order) error
}

type OrderHandlers struct {
	sink   OrderSink
	logger *zap.Logger
}

func NewOrderHandlers(sink OrderSink, logger *zap.Logger) *OrderHandlers {
	return &OrderHandlers{sink: sink, logger: logger}
}

// SendEmail accepts an order document and sends its confirmation email.
func (h *OrderHandlers) SendEmail(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		respondJSON(w, http.StatusBadRequest, apperrors.Fail("Pedido inválido"))
		return
	}
	if o.OrderNumber == "" || o.User.Email == "" {
		respondJSON(w, http.StatusBadRequest, apperrors.Fail("Faltan el número de pedido o el email"))
		return
	}

	if err := h.sink.HandleOrderPlaced(r.Context(), o); err != nil {
		h.logger.Error("order confirmation failed", zap.String("order_number", o.OrderNumber), zap.Error(err))
		respondJSON(w, http.StatusBadGateway, apperrors.Fail("No se pudo enviar el correo"))
		return
	}
	respondJSON(w, http.StatusOK, apperrors.OK())
}
