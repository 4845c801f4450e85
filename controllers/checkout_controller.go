package controllers

import (
	"errors"
	"net/http"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Cart     services.CartStore
	Checkout *services.CheckoutService
	Logger   *zap.Logger
}

func NewCheckoutController(cart services.CartStore, checkout *services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{Cart: cart, Checkout: checkout, Logger: logger}
}

// CreateSession turns the caller's cart into a hosted checkout session and
// returns the redirect URL. Stripe errors propagate to the caller as-is; no
// retry happens here, user-facing messaging is the client's job.
func (cc *CheckoutController) CreateSession(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		OrderNumber   string          `json:"orderNumber"`
		CustomerName  string          `json:"customerName" binding:"required"`
		CustomerEmail string          `json:"customerEmail" binding:"required,email"`
		Address       *models.Address `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if req.OrderNumber == "" {
		req.OrderNumber = uuid.NewString()
	}

	items, err := cc.Cart.GetGroupedItems(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		cc.Logger.Error("Failed to load cart for checkout", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	meta := models.CheckoutMetadata{
		OrderNumber:   req.OrderNumber,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		UserID:        userID,
		Address:       req.Address,
	}

	url, err := cc.Checkout.CreateSession(items, meta)
	if err != nil {
		cc.Logger.Error("Failed to create checkout session",
			zap.String("order_number", meta.OrderNumber),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "orderNumber": meta.OrderNumber})
}
