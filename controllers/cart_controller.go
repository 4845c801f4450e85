package controllers

import (
	"errors"
	"net/http"

	"storefront-service/middleware"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartController struct {
	Cart   services.CartStore
	Logger *zap.Logger
}

func NewCartController(cart services.CartStore, logger *zap.Logger) *CartController {
	return &CartController{Cart: cart, Logger: logger}
}

// GetCart returns the current cart with its derived total.
func (cc *CartController) GetCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	cart, err := cc.Cart.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.Logger.Error("Failed to get cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

// AddItem adds or merges a product line into the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.Cart.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, services.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			cc.Logger.Error("Failed to add cart item", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		}
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes a product line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID := middleware.GetUserID(c)

	cart, err := cc.Cart.RemoveItem(c.Request.Context(), userID, c.Param("product_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
			return
		}
		cc.Logger.Error("Failed to remove cart item", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart resets the cart completely.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := cc.Cart.Reset(c.Request.Context(), userID); err != nil {
		cc.Logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
