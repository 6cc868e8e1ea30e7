package testutil

import (
	"context"
	"sync"

	"print-order-backend/internal/models"
	"print-order-backend/internal/payment"
)

// Gateway is a scripted payment provider. Sessions maps session ids to the
// order id and payment status the provider would report.
type Gateway struct {
	mu sync.Mutex

	Sessions      map[string]payment.SessionStatus
	CreateErr     error
	Event         *payment.WebhookEvent
	EventErr      error
	CheckoutCalls []models.Order
	UnitAmounts   []int64
}

func NewGateway() *Gateway {
	return &Gateway{Sessions: make(map[string]payment.SessionStatus)}
}

func (g *Gateway) CreateCheckoutSession(_ context.Context, order *models.Order) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CheckoutCalls = append(g.CheckoutCalls, *order)
	g.UnitAmounts = append(g.UnitAmounts, payment.MinorUnits(order.Amount))
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	return &payment.CheckoutSession{
		SessionID: "cs_" + order.ID.String(),
		URL:       "https://checkout.example/" + order.ID.String(),
	}, nil
}

func (g *Gateway) VerifyPayment(_ context.Context, sessionID, orderID string) (*payment.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.Sessions[sessionID]
	if !ok {
		return nil, payment.ErrPaymentProvider
	}
	if s.OrderID != orderID {
		return nil, payment.ErrPaymentMismatch
	}
	s.SessionID = sessionID
	s.IsPaid = s.PaymentStatus == payment.PaymentStatusPaid
	return &s, nil
}

// ParseWebhookEvent accepts only the signature "valid".
func (g *Gateway) ParseWebhookEvent(_ []byte, signature string) (*payment.WebhookEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	if g.EventErr != nil {
		return nil, g.EventErr
	}
	ev := *g.Event
	return &ev, nil
}

func (g *Gateway) CheckoutCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.CheckoutCalls)
}

// Dedup is an in-memory webhook event register.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]bool)}
}

func (d *Dedup) FirstDelivery(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *Dedup) Forget(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, eventID)
	return nil
}
