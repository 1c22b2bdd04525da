package notifications

import (
	"context"
	"fmt"

	"github.com/agrimarket/agrimarket-backend/pkg/config"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/logger"
)

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders order lifecycle emails and dispatches them without blocking
// the request path. Delivery failures are logged, never surfaced.
type Mailer struct {
	sender Sender
	logg   *logger.Logger
	cfg    config.EmailConfig
}

// NewMailer constructs a mailer using the provided sender. A nil sender falls
// back to log-only delivery.
func NewMailer(sender Sender, logg *logger.Logger, cfg config.EmailConfig) *Mailer {
	if sender == nil {
		sender = &logSender{logg: logg}
	}
	return &Mailer{sender: sender, logg: logg, cfg: cfg}
}

// OrderPlaced notifies the customer that their order was created.
func (m *Mailer) OrderPlaced(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	m.dispatch(ctx, order, Message{
		Subject: fmt.Sprintf("Order %s received", order.OrderNumber),
		Body: fmt.Sprintf("Your order %s for GHS %s has been received and is awaiting payment confirmation.",
			order.OrderNumber, order.TotalAmount.StringFixed(2)),
	})
}

// PaymentConfirmed notifies the customer that settlement completed.
func (m *Mailer) PaymentConfirmed(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	m.dispatch(ctx, order, Message{
		Subject: fmt.Sprintf("Payment confirmed for order %s", order.OrderNumber),
		Body: fmt.Sprintf("We received your payment of GHS %s for order %s. Your order is now being processed.",
			order.TotalAmount.StringFixed(2), order.OrderNumber),
	})
}

func (m *Mailer) dispatch(ctx context.Context, order *models.Order, msg Message) {
	if !m.cfg.Enabled {
		return
	}
	if order.User != nil {
		msg.To = order.User.Email
	}

	// Delivery happens off the request path. The base context may be
	// cancelled as soon as the response is written, so detach it.
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := m.sender.Send(detached, msg); err != nil && m.logg != nil {
			m.logg.Warn(m.logg.WithFields(detached, map[string]any{
				"order_number": order.OrderNumber,
				"subject":      msg.Subject,
			}), "email delivery failed: "+err.Error())
		}
	}()
}

type logSender struct {
	logg *logger.Logger
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	if s.logg == nil {
		return nil
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	}), "email dispatched")
	return nil
}
