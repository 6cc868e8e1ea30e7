package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 1 << 20
)

type WebhookHandler struct {
	payments *services.PaymentService
}

func NewWebhookHandler(payments *services.PaymentService) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// HandleWebhook godoc
// @Summary     Stripe webhook endpoint
// @Description Receives signed checkout notifications. Paid checkout completions move pending orders to processing.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Stripe-Signature header string true "Webhook signature"
// @Success     200 {object} models.WebhookResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /stripe/webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	signature := c.GetHeader(signatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing Stripe signature"})
		return
	}

	// The signature covers the raw bytes, so the body must not be re-encoded.
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "failed to read request body", err)
		return
	}

	event, err := h.payments.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "webhook rejected", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.WebhookResponse{
		Status: "success",
		Event:  event.Type,
	})
}
