package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/middleware"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

type UsersHandler struct {
	users *services.UserService
}

func NewUsersHandler(users *services.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me godoc
// @Summary     Current user profile
// @Tags        user
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /user/me [get]
func (h *UsersHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewUserResponse(middleware.CurrentUser(c)))
}

// UpdateMe godoc
// @Summary     Update the current user's profile
// @Description Only fields present in the body are changed.
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UserUpdateRequest true "Profile fields"
// @Success     200 {object} models.UserResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /user/me [put]
func (h *UsersHandler) UpdateMe(c *gin.Context) {
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// GetUser godoc
// @Summary     Get a user by id
// @Description Admin only.
// @Tags        user
// @Produce     json
// @Security    Bearer
// @Param       user_id path int true "User ID"
// @Success     200 {object} models.AdminUserResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /user/{user_id} [get]
func (h *UsersHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id", err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAdminUserResponse(user))
}
