package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// OrderService materializes a confirmed checkout session into exactly one
// persistent order and triggers the inventory decrement.
type OrderService struct {
	gateway   PaymentGateway
	orders    repository.OrderRepo
	inventory InventoryAdjuster
	logger    *zap.Logger
}

func NewOrderService(gateway PaymentGateway, orders repository.OrderRepo, inventory InventoryAdjuster, logger *zap.Logger) *OrderService {
	return &OrderService{gateway: gateway, orders: orders, inventory: inventory, logger: logger}
}

// MaterializeOrder builds and persists the order for a completed session.
// Line items are re-fetched from Stripe rather than trusted from the
// original request. Creation is keyed on the session id, so a redelivered
// webhook for an already-processed session is a no-op: no duplicate order,
// no second inventory decrement. A persistence failure propagates to the
// caller, which surfaces it as retryable to Stripe.
func (s *OrderService) MaterializeOrder(ctx context.Context, sess *stripe.CheckoutSession) error {
	meta := decodeMetadata(sess)

	lineItems, err := s.gateway.SessionLineItems(sess.ID)
	if err != nil {
		return fmt.Errorf("fetch session line items: %w", err)
	}

	// Invoice data is enrichment only: a failed fetch is logged and
	// fulfillment proceeds without it.
	var inv *stripe.Invoice
	if sess.Invoice != nil {
		if inv, err = s.gateway.GetInvoice(sess.Invoice.ID); err != nil {
			s.logger.Warn("Failed to retrieve invoice, continuing without it",
				zap.String("session_id", sess.ID),
				zap.String("invoice_id", sess.Invoice.ID),
				zap.Error(err),
			)
			inv = nil
		}
	}

	var (
		orderItems   []models.OrderItem
		stockUpdates []StockUpdate
	)
	for _, item := range lineItems {
		productID := lineItemProductID(item)
		if productID == "" {
			// Silent-drop policy: the item is excluded from the order and
			// from the inventory adjustment. Logged with the session id so
			// operators can reconcile under-fulfilled orders.
			s.logger.Warn("Dropping line item with unresolvable product",
				zap.String("session_id", sess.ID),
				zap.String("line_item_id", item.ID),
			)
			continue
		}

		orderItems = append(orderItems, models.OrderItem{
			Key:       uuid.NewString(),
			ProductID: productID,
			Quantity:  item.Quantity,
		})
		stockUpdates = append(stockUpdates, StockUpdate{ProductID: productID, Quantity: item.Quantity})
	}

	order := &models.Order{
		ID:                      uuid.NewString(),
		OrderNumber:             meta.OrderNumber,
		StripeCheckoutSessionID: sess.ID,
		CustomerName:            meta.CustomerName,
		Email:                   meta.CustomerEmail,
		UserID:                  meta.UserID,
		Currency:                string(sess.Currency),
		TotalPrice:              minorToMajor(sess.AmountTotal),
		Items:                   orderItems,
		Address:                 meta.Address,
		Status:                  models.OrderStatusPaid,
		OrderDate:               time.Now().UTC(),
	}
	if sess.PaymentIntent != nil {
		order.StripePaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.TotalDetails != nil {
		order.AmountDiscount = minorToMajor(sess.TotalDetails.AmountDiscount)
	}
	if inv != nil {
		order.Invoice = &models.OrderInvoice{
			ID:               inv.ID,
			Number:           inv.Number,
			HostedInvoiceURL: inv.HostedInvoiceURL,
		}
	}

	created, err := s.orders.CreateIfAbsent(ctx, order)
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	if !created {
		s.logger.Info("Order already materialized for session, skipping",
			zap.String("session_id", sess.ID),
			zap.String("order_number", meta.OrderNumber),
		)
		return nil
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("session_id", sess.ID),
		zap.Int("items", len(orderItems)),
	)

	s.inventory.Adjust(ctx, sess.ID, stockUpdates)
	return nil
}

// OrdersForUser returns the persisted orders for a user, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

// decodeMetadata restores the CheckoutMetadata fields from the session's
// metadata bag. The address defaults to absent when missing or unparseable.
func decodeMetadata(sess *stripe.CheckoutSession) models.CheckoutMetadata {
	meta := models.CheckoutMetadata{
		OrderNumber:   sess.Metadata["orderNumber"],
		CustomerName:  sess.Metadata["customerName"],
		CustomerEmail: sess.Metadata["customerEmail"],
		UserID:        sess.Metadata["userId"],
	}

	if raw := sess.Metadata["address"]; raw != "" && raw != "null" {
		var addr models.Address
		if err := json.Unmarshal([]byte(raw), &addr); err == nil {
			meta.Address = &addr
		}
	}
	return meta
}

// lineItemProductID resolves the catalog product id from the expanded
// product's metadata.
func lineItemProductID(item *stripe.LineItem) string {
	if item == nil || item.Price == nil || item.Price.Product == nil {
		return ""
	}
	return item.Price.Product.Metadata["id"]
}

func minorToMajor(amount int64) float64 {
	return float64(amount) / 100
}
