package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/middleware"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register godoc
// @Summary     Register an account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.RegisterRequest true "New account"
// @Success     200 {object} models.UserResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// Login godoc
// @Summary     Log in
// @Description Accepts a JSON body or form fields. The username field may hold the email instead.
// @Tags        auth
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.TokenResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
		FullName:    user.FullName,
		Email:       user.Email,
		Role:        user.Role,
	})
}

// ResetPassword godoc
// @Summary     Change the caller's password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PasswordResetRequest true "Current and new password"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password updated successfully"})
}

// ResetUserPassword godoc
// @Summary     Reset another user's password
// @Description Admin only.
// @Tags        auth
// @Accept      json,x-www-form-urlencoded
// @Produce     json
// @Security    Bearer
// @Param       request body models.AdminPasswordResetRequest true "Target email and new password"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /auth/reset-user-password [post]
func (h *AuthHandler) ResetUserPassword(c *gin.Context) {
	var req models.AdminPasswordResetRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	if err := h.users.AdminResetPassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Password reset successfully"})
}
