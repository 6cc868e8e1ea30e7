package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/models"
)

type HealthHandler struct {
	appName     string
	environment string
}

func NewHealthHandler(appName, environment string) *HealthHandler {
	return &HealthHandler{appName: appName, environment: environment}
}

// Health godoc
// @Summary     Health check
// @Description Returns the health status of the API
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
	})
}

// Root godoc
// @Summary     Service banner
// @Tags        health
// @Produce     json
// @Success     200 {object} models.MessageResponse
// @Router      / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Welcome to " + h.appName})
}
