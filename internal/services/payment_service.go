package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"print-order-backend/internal/models"
	"print-order-backend/internal/payment"
)

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, order *models.Order) (*payment.CheckoutSession, error)
	VerifyPayment(ctx context.Context, sessionID, orderID string) (*payment.SessionStatus, error)
	ParseWebhookEvent(payload []byte, signature string) (*payment.WebhookEvent, error)
}

// EventDeduplicator reports whether a webhook event id is seen for the
// first time.
type EventDeduplicator interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// PaymentService feeds both the synchronous verify call and provider
// webhooks into OrderService.ConfirmPayment.
type PaymentService struct {
	orders  *OrderService
	store   OrderStore
	gateway PaymentGateway
	dedup   EventDeduplicator
}

func NewPaymentService(orders *OrderService, gateway PaymentGateway, dedup EventDeduplicator) *PaymentService {
	if dedup == nil {
		dedup = payment.NoopDeduplicator{}
	}
	return &PaymentService{
		orders:  orders,
		store:   orders.store,
		gateway: gateway,
		dedup:   dedup,
	}
}

// CreateCheckoutSession refuses orders that are not pending before the
// provider is contacted.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, orderID uuid.UUID, actor *models.User) (*payment.CheckoutSession, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkoutAllowed(order, actor); err != nil {
		return nil, err
	}
	return s.gateway.CreateCheckoutSession(ctx, order)
}

// VerifyPayment checks the session against the order referenced by
// orderRef and confirms the order when the session is paid.
func (s *PaymentService) VerifyPayment(ctx context.Context, sessionID, orderRef string) (*payment.SessionStatus, error) {
	order, err := s.orders.Lookup(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	status, err := s.gateway.VerifyPayment(ctx, sessionID, order.ID.String())
	if err != nil {
		return nil, err
	}

	if _, err := s.orders.ConfirmPayment(ctx, order.ID, status.IsPaid); err != nil {
		return nil, err
	}
	return status, nil
}

// HandleWebhook verifies and applies one provider notification. Events for
// unknown orders are acknowledged and logged.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	event, err := s.gateway.ParseWebhookEvent(payload, signature)
	if err != nil {
		return nil, err
	}

	if !event.IsPaid || event.OrderID == "" {
		slog.DebugContext(ctx, "webhook event ignored", "event_id", event.ID, "type", event.Type)
		return event, nil
	}

	first, err := s.dedup.FirstDelivery(ctx, event.ID)
	if err != nil {
		slog.WarnContext(ctx, "webhook dedup unavailable", "event_id", event.ID, "error", err)
		first = true
	}
	if !first {
		slog.InfoContext(ctx, "duplicate webhook delivery", "event_id", event.ID)
		return event, nil
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		slog.WarnContext(ctx, "webhook references malformed order id", "event_id", event.ID, "order_id", event.OrderID)
		return event, nil
	}

	if _, err := s.orders.ConfirmPayment(ctx, orderID, true); err != nil {
		if isNotFound(err) {
			slog.WarnContext(ctx, "webhook references unknown order", "event_id", event.ID, "order_id", orderID)
			return event, nil
		}
		if ferr := s.dedup.Forget(ctx, event.ID); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return nil, fmt.Errorf("failed to apply webhook event %s: %w", event.ID, err)
	}

	return event, nil
}
