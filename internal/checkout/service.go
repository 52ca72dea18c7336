// Package checkout turns the cart and the checkout form into a placed order.
package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/cart"
	"github.com/example/delicias-storefront/internal/domain/order"
	"github.com/example/delicias-storefront/internal/domain/session"
)

var (
	ErrLoginRequired = &apperrors.ValidationError{Message: "Por favor inicia sesión para continuar con la compra"}
	ErrEmptyCart     = &apperrors.ValidationError{Message: "Tu carrito está vacío"}
)

// CartStore is the part of the cart checkout reads and clears.
type CartStore interface {
	Items() []cart.LineItem
	ClearCart(ctx context.Context)
}

// SessionStore reports the logged-in user.
type SessionStore interface {
	CurrentUser() (session.User, bool)
}

type Service struct {
	cart      CartStore
	session   SessionStore
	notifier  Notifier
	validator *FormValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires checkout. A nil notifier skips the confirmation.
func NewService(c CartStore, s SessionStore, n Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cart:      c,
		session:   s,
		notifier:  n,
		validator: NewFormValidator(),
		logger:    logger.Named("checkout"),
		now:       time.Now,
	}
}

// Summary is the breakdown for the current cart.
func (s *Service) Summary() order.Totals {
	return order.ComputeTotals(s.cart.Items())
}

// Place checks the session, the cart and the form, in that order, then
// builds the order, sends the confirmation and clears the cart. A failed
// confirmation is logged and does not fail the order.
func (s *Service) Place(ctx context.Context, form Form) (order.Order, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return order.Order{}, ErrLoginRequired
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return order.Order{}, ErrEmptyCart
	}
	if err := s.validator.Validate(form); err != nil {
		return order.Order{}, err
	}

	now := s.now()
	o := order.New(order.NewNumber(now), form.Normalize().customer(user.ID), items, now)

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(ctx, o); err != nil {
			s.logger.Warn("failed to send order confirmation",
				zap.String("order_number", o.OrderNumber),
				zap.Error(err),
			)
		}
	}

	s.cart.ClearCart(ctx)
	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Int64("user_id", user.ID),
		zap.String("final_total", o.FinalTotal.StringFixed(2)),
	)
	return o, nil
}
