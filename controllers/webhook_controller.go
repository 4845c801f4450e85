package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type WebhookController struct {
	Stripe *services.StripeService
	Orders *services.OrderService
	Logger *zap.Logger
}

func NewWebhookController(stripeSvc *services.StripeService, orders *services.OrderService, logger *zap.Logger) *WebhookController {
	return &WebhookController{Stripe: stripeSvc, Orders: orders, Logger: logger}
}

// StripeWebhook receives asynchronous payment notifications. The signature
// is verified against the raw body before anything is parsed; a fulfillment
// failure is answered with 400 so Stripe's dispatcher redelivers the event.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no signature found"})
		return
	}

	if wc.Stripe.WebhookSecret == "" {
		wc.Logger.Error("Stripe webhook secret is not configured")
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook secret is not configured"})
		return
	}

	event, err := wc.Stripe.VerifyWebhook(payload, sig)
	if err != nil {
		wc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook signature verification failed"})
		return
	}

	if event.Type != "checkout.session.completed" {
		wc.Logger.Info("Ignoring webhook event", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout session payload"})
		return
	}

	if err := wc.Orders.MaterializeOrder(c.Request.Context(), &sess); err != nil {
		wc.Logger.Error("Failed to materialize order",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "error creating order: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
