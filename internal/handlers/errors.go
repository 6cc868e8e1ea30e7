package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/auth"
	"print-order-backend/internal/estimator"
	"print-order-backend/internal/models"
	"print-order-backend/internal/payment"
	"print-order-backend/internal/services"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, estimator.ErrDocumentRead):
		return http.StatusUnprocessableEntity
	case errors.Is(err, payment.ErrPaymentProvider):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrOrderNotPending),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrIncorrectPassword),
		errors.Is(err, services.ErrInactiveUser),
		errors.Is(err, services.ErrInvalidFilename),
		errors.Is(err, models.ErrDuplicate),
		errors.Is(err, estimator.ErrUnsupportedFileType),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrMalformedEvent),
		errors.Is(err, payment.ErrPaymentMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Internal failures are logged
// and their details kept out of the body.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, models.ErrorResponse{Error: "internal server error"})
		return
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
