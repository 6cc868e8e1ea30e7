package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"print-order-backend/internal/models"
)

const verifyRetries = 3

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	FrontendURL   string
}

// checkoutSessions is the subset of the Stripe client the gateway needs.
type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	sessions      checkoutSessions
	webhookSecret string
	currency      string
	frontendURL   string
	backoffs      []time.Duration
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	sessions := &session.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: cfg.SecretKey,
	}
	return newStripeGateway(sessions, cfg)
}

func newStripeGateway(sessions checkoutSessions, cfg StripeConfig) *StripeGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = string(stripe.CurrencyCNY)
	}
	return &StripeGateway{
		sessions:      sessions,
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		frontendURL:   cfg.FrontendURL,
		backoffs:      DefaultBackoffs,
	}
}

// CreateCheckoutSession opens a single line item session for the whole
// order amount.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *models.Order) (*CheckoutSession, error) {
	orderID := order.ID.String()

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Print Order #" + orderID),
						Description: stripe.String(lineItemDescription(order)),
					},
					UnitAmount: stripe.Int64(MinorUnits(order.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(fmt.Sprintf("%s/orders/%s?payment_success=true", g.frontendURL, orderID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/orders/%s?payment_canceled=true", g.frontendURL, orderID)),
		ClientReferenceID: stripe.String(orderID),
		CustomerEmail:     stripe.String(order.Email),
	}
	params.Context = ctx
	params.AddMetadata(metadataOrderID, orderID)

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrPaymentProvider, err)
	}

	slog.InfoContext(ctx, "checkout session created", "order_id", orderID, "session_id", s.ID)
	return &CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

func lineItemDescription(order *models.Order) string {
	mode := "Black & White"
	if order.ColorMode == models.ColorModeColor {
		mode = "Color"
	}
	return fmt.Sprintf("Print Service: %d pages, %d copies, %s", order.Pages, order.Copies, mode)
}

// VerifyPayment reads the session back and checks it was opened for
// orderID.
func (g *StripeGateway) VerifyPayment(ctx context.Context, sessionID, orderID string) (*SessionStatus, error) {
	var s *stripe.CheckoutSession
	err := RetryWithBackoff(ctx, func() error {
		params := &stripe.CheckoutSessionParams{}
		params.Context = ctx

		var err error
		s, err = g.sessions.Get(sessionID, params)
		if err != nil && !retryable(err) {
			return Permanent(err)
		}
		return err
	}, verifyRetries, g.backoffs)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve checkout session: %v", ErrPaymentProvider, err)
	}

	if got := s.Metadata[metadataOrderID]; got != orderID {
		slog.WarnContext(ctx, "payment session does not match order",
			"session_id", sessionID, "session_order_id", got, "order_id", orderID)
		return nil, ErrPaymentMismatch
	}

	status := string(s.PaymentStatus)
	return &SessionStatus{
		SessionID:     sessionID,
		OrderID:       orderID,
		PaymentStatus: status,
		IsPaid:        status == PaymentStatusPaid,
	}, nil
}

// retryable reports whether a provider error may succeed on a later
// attempt. Client errors other than rate limiting are final.
func retryable(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return true
	}
	if stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return stripeErr.HTTPStatusCode >= http.StatusInternalServerError || stripeErr.HTTPStatusCode == 0
}

// ParseWebhookEvent verifies the Stripe-Signature header against the raw
// body before decoding anything from it.
func (g *StripeGateway) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != EventCheckoutSessionCompleted {
		return out, nil
	}

	if event.Data == nil {
		return nil, fmt.Errorf("%w: missing event data", ErrMalformedEvent)
	}
	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	out.OrderID = s.Metadata[metadataOrderID]
	out.PaymentStatus = string(s.PaymentStatus)
	out.IsPaid = out.PaymentStatus == PaymentStatusPaid
	return out, nil
}
