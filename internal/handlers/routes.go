package handlers

import (
	"github.com/gin-gonic/gin"

	"print-order-backend/internal/middleware"
)

type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Users    *UsersHandler
	Orders   *OrdersHandler
	Files    *FilesHandler
	Payments *PaymentsHandler
	Webhook  *WebhookHandler
}

// Register mounts every route. API routes live under apiPrefix; the health
// endpoints stay at the root.
func (h *Handlers) Register(router *gin.Engine, apiPrefix string, authn middleware.Authenticator) {
	required := middleware.AuthMiddleware(authn)
	optional := middleware.OptionalAuthMiddleware(authn)
	admin := middleware.RequireAdmin()

	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Health)

	api := router.Group(apiPrefix)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/reset-password", required, h.Auth.ResetPassword)
	authRoutes.POST("/reset-user-password", required, admin, h.Auth.ResetUserPassword)

	files := api.Group("/files")
	files.POST("/upload", optional, h.Files.Upload)
	files.GET("/:filename", h.Files.GetFile)

	orders := api.Group("/orders")
	orders.POST("", optional, h.Orders.CreateOrder)
	orders.GET("", required, admin, h.Orders.ListOrders)
	orders.GET("/my", required, h.Orders.ListMyOrders)
	orders.GET("/search/phone/:phone", optional, h.Orders.SearchByPhone)
	orders.GET("/search/:order_search_id", h.Orders.SearchBySearchID)
	orders.GET("/:order_search_id", optional, h.Orders.GetOrder)
	orders.GET("/:order_search_id/qrcode", h.Orders.OrderQRCode)
	orders.PUT("/:order_id/status", required, admin, h.Orders.UpdateOrderStatus)

	stripe := api.Group("/stripe")
	stripe.POST("/create-checkout-session/:order_id", optional, h.Payments.CreateCheckoutSession)
	stripe.POST("/verify-payment", optional, h.Payments.VerifyPayment)
	stripe.POST("/webhook", h.Webhook.HandleWebhook)

	users := api.Group("/user", required)
	users.GET("/me", h.Users.Me)
	users.PUT("/me", h.Users.UpdateMe)
	users.GET("/:user_id", admin, h.Users.GetUser)
}
