package controllers

import (
	"net/http"

	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	Orders *services.OrderService
	Logger *zap.Logger
}

func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{Orders: orders, Logger: logger}
}

// ListMyOrders returns the caller's persisted orders, newest first.
func (oc *OrderController) ListMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	orders, err := oc.Orders.OrdersForUser(c.Request.Context(), userID)
	if err != nil {
		oc.Logger.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
