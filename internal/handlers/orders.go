package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"print-order-backend/internal/middleware"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

const qrCodeSize = 256

type OrdersHandler struct {
	orders *services.OrderService
	loc    *time.Location
}

// NewOrdersHandler renders order timestamps in loc.
func NewOrdersHandler(orders *services.OrderService, loc *time.Location) *OrdersHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrdersHandler{
		orders: orders,
		loc:    loc,
	}
}

func (h *OrdersHandler) render(orders []models.Order) []models.OrderResponse {
	out := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, models.NewOrderResponse(&orders[i], h.loc))
	}
	return out
}

// CreateOrder godoc
// @Summary     Create a print order
// @Description Creates a pending order for a previously uploaded file. Anonymous callers place guest orders.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Print job"
// @Success     200 {object} models.OrderCreatedResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrderCreatedResponse{
		ID:            order.ID.String(),
		OrderSearchID: order.OrderSearchID,
		Username:      order.Username,
		FileID:        order.FileID,
		Status:        string(order.Status),
		IsGuest:       order.IsGuest,
		CreatedAt:     order.CreatedAt.In(h.loc),
	})
}

// ListMyOrders godoc
// @Summary     List the caller's orders
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {array} models.OrderResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /orders/my [get]
func (h *OrdersHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(orders))
}

// GetOrder godoc
// @Summary     Get an order by search id
// @Description Signed-in users may only read their own orders unless they are admins.
// @Tags        orders
// @Produce     json
// @Param       order_search_id path string true "Order search id"
// @Success     200 {object} models.OrderResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_search_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("order_search_id"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order, h.loc))
}

// SearchByPhone godoc
// @Summary     Find orders by contact phone
// @Tags        orders
// @Produce     json
// @Param       phone path string true "Phone number"
// @Success     200 {array} models.OrderResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/search/phone/{phone} [get]
func (h *OrdersHandler) SearchByPhone(c *gin.Context) {
	orders, err := h.orders.SearchByPhone(c.Request.Context(), c.Param("phone"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(orders))
}

// SearchBySearchID godoc
// @Summary     Track an order
// @Tags        orders
// @Produce     json
// @Param       order_search_id path string true "Order search id"
// @Success     200 {object} models.OrderResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/search/{order_search_id} [get]
func (h *OrdersHandler) SearchBySearchID(c *gin.Context) {
	order, err := h.orders.SearchBySearchID(c.Request.Context(), c.Param("order_search_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order, h.loc))
}

// OrderQRCode godoc
// @Summary     Pickup QR code
// @Description PNG QR code encoding the order search id.
// @Tags        orders
// @Produce     png
// @Param       order_search_id path string true "Order search id"
// @Success     200 {file} binary
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_search_id}/qrcode [get]
func (h *OrdersHandler) OrderQRCode(c *gin.Context) {
	order, err := h.orders.SearchBySearchID(c.Request.Context(), c.Param("order_search_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	png, err := qrcode.Encode(order.OrderSearchID, qrcode.Medium, qrCodeSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// UpdateOrderStatus godoc
// @Summary     Set an order's status
// @Description Admin only. Any status is accepted; completed stamps completed_at.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order search id or UUID"
// @Param       request body models.UpdateOrderStatusRequest true "New status"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id}/status [put]
func (h *OrdersHandler) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), req.Status, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(order, h.loc))
}

// ListOrders godoc
// @Summary     List all orders
// @Description Admin only, newest first.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       page query int false "Page number" default(1)
// @Param       size query int false "Page size (max 100)" default(10)
// @Success     200 {object} models.OrderListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		badRequest(c, "invalid page", err)
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(services.DefaultPageSize)))
	if err != nil {
		badRequest(c, "invalid size", err)
		return
	}

	result, err := h.orders.List(c.Request.Context(), page, size, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Orders:     h.render(result.Orders),
		Total:      result.Total,
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages(),
	})
}
