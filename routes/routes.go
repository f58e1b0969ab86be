package routes

import (
	"github.com/eshop-labs/eshop-backend-go/handlers"
	"github.com/eshop-labs/eshop-backend-go/metrics"
	customMiddleware "github.com/eshop-labs/eshop-backend-go/middleware"
	"github.com/labstack/echo/v4"
)

func SetupRoutes(e *echo.Echo, h *handlers.Handler) {
	// Public routes
	e.POST("/api/auth/login", h.Login)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Protected API routes
	api := e.Group("/api")
	api.Use(customMiddleware.AuthMiddleware)

	api.GET("/auth/session", h.Session)

	// Product routes
	api.GET("/products", h.GetProducts)
	api.GET("/products/:id", h.GetProduct)

	// Cart routes
	api.GET("/cart", h.GetCart)
	api.POST("/cart", h.AddToCart)
	api.PUT("/cart/quantity", h.UpdateCartItemQuantity)
	api.DELETE("/cart/:productId", h.RemoveFromCart)

	// Wishlist routes
	api.GET("/wishlist", h.GetWishlist)
	api.POST("/wishlist", h.AddToWishlist)
	api.DELETE("/wishlist/:productId", h.RemoveFromWishlist)

	// Address routes
	api.GET("/addresses", h.GetAddresses)
	api.POST("/addresses", h.AddAddress)

	// Order routes
	api.POST("/orders", h.PlaceOrder)
	api.GET("/orders", h.GetMyOrders)
	api.GET("/orders/:id", h.GetOrder)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(customMiddleware.AdminMiddleware)
	admin.GET("/orders", h.GetAllOrders)
	admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	admin.GET("/stats", h.GetStats)
	admin.POST("/products", h.CreateProduct)
	admin.PATCH("/products/:id", h.UpdateProduct)
}
