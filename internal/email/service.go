package email

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/domain/order"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP. Without a host, messages are only logged.
type Service struct {
	host   string
	port   string
	from   string
	send   SendFunc
	logger *zap.Logger
}

func NewService(host, port, from string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		host:   host,
		port:   port,
		from:   from,
		send:   smtp.SendMail,
		logger: logger.Named("email"),
	}
}

// SendOrderConfirmation mails the order summary to the customer.
func (s *Service) SendOrderConfirmation(o order.Order) error {
	to := o.User.Email
	if to == "" {
		return fmt.Errorf("order %s has no customer email", o.OrderNumber)
	}
	subject := fmt.Sprintf("Confirmación de tu pedido %s", o.OrderNumber)
	body := BuildOrderConfirmationBody(o)

	if s.host == "" {
		s.logger.Info("smtp not configured, skipping order confirmation",
			zap.String("to", to),
			zap.String("order_number", o.OrderNumber),
		)
		return nil
	}
	if err := s.deliver(to, subject, body); err != nil {
		return fmt.Errorf("send order confirmation %s: %w", o.OrderNumber, err)
	}
	s.logger.Info("order confirmation sent",
		zap.String("to", to),
		zap.String("order_number", o.OrderNumber),
	)
	return nil
}

func (s *Service) deliver(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.send(addr, nil, s.from, []string{to}, []byte(msg))
}
