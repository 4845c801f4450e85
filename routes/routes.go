package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all storefront endpoints onto the engine.
func RegisterRoutes(
	r *gin.Engine,
	products *controllers.ProductController,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
	orders *controllers.OrderController,
	webhook *controllers.WebhookController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/products", products.ListProducts)
	r.GET("/products/:id", products.GetProduct)

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware())
	cartGroup.GET("", cart.GetCart)
	cartGroup.POST("/items", cart.AddItem)
	cartGroup.DELETE("/items/:product_id", cart.RemoveItem)
	cartGroup.DELETE("", cart.ClearCart)

	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.AuthMiddleware())
	checkoutGroup.POST("", checkout.CreateSession)

	ordersGroup := r.Group("/orders")
	ordersGroup.Use(middleware.AuthMiddleware())
	ordersGroup.GET("", orders.ListMyOrders)

	// Stripe webhook (no auth; authenticity is the signature check)
	r.POST("/stripe/webhook", webhook.StripeWebhook)
}
