package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"print-order-backend/internal/middleware"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

type PaymentsHandler struct {
	payments *services.PaymentService
}

func NewPaymentsHandler(payments *services.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// CreateCheckoutSession godoc
// @Summary     Start checkout for an order
// @Description Opens a hosted checkout session for a pending order.
// @Tags        stripe
// @Produce     json
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.CheckoutSessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /stripe/create-checkout-session/{order_id} [post]
func (h *PaymentsHandler) CreateCheckoutSession(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		return
	}

	session, err := h.payments.CreateCheckoutSession(c.Request.Context(), orderID, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CheckoutSessionResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	})
}

// VerifyPayment godoc
// @Summary     Verify a checkout session
// @Description Reads the session back from the provider and confirms the order when it is paid.
// @Tags        stripe
// @Produce     json
// @Param       session_id query string true "Checkout session id"
// @Param       order_id query string true "Order search id or UUID"
// @Success     200 {object} models.VerifyPaymentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /stripe/verify-payment [post]
func (h *PaymentsHandler) VerifyPayment(c *gin.Context) {
	sessionID := c.Query("session_id")
	orderRef := c.Query("order_id")
	if sessionID == "" || orderRef == "" {
		badRequest(c, "session_id and order_id are required", nil)
		return
	}

	status, err := h.payments.VerifyPayment(c.Request.Context(), sessionID, orderRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyPaymentResponse{
		OrderID:       status.OrderID,
		PaymentStatus: status.PaymentStatus,
		IsPaid:        status.IsPaid,
		SessionID:     status.SessionID,
	})
}
