// Package payment adapts the hosted checkout provider: it opens checkout
// sessions for orders, reads a session's payment status back and verifies
// signed webhook deliveries.
package payment

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentMismatch  = errors.New("payment session does not match order")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
	ErrPaymentProvider  = errors.New("payment provider request failed")
)

const (
	PaymentStatusPaid = "paid"

	EventCheckoutSessionCompleted = "checkout.session.completed"

	metadataOrderID = "order_id"
)

type CheckoutSession struct {
	SessionID string
	URL       string
}

type SessionStatus struct {
	SessionID     string
	OrderID       string
	PaymentStatus string
	IsPaid        bool
}

// WebhookEvent is a verified provider notification. Only checkout
// completion events carry an order id and payment status.
type WebhookEvent struct {
	ID            string
	Type          string
	OrderID       string
	PaymentStatus string
	IsPaid        bool
}

// MinorUnits converts an amount to the provider's integer minor units,
// rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
