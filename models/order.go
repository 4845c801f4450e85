package models

import "time"

// OrderStatusPaid is the only status this flow produces; orders are created
// after payment is confirmed and never mutated afterwards.
const OrderStatusPaid = "paid"

// OrderItem is one purchased product reference inside an order. Key is a
// generated unique id per array entry, mirroring how the content store keys
// array members.
type OrderItem struct {
	Key       string `json:"_key" bson:"_key"`
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int64  `json:"quantity" bson:"quantity"`
}

// OrderInvoice is a snapshot of the Stripe invoice attached to a session,
// when invoice creation was enabled.
type OrderInvoice struct {
	ID               string `json:"id" bson:"id"`
	Number           string `json:"number,omitempty" bson:"number,omitempty"`
	HostedInvoiceURL string `json:"hosted_invoice_url,omitempty" bson:"hosted_invoice_url,omitempty"`
}

// Order is the persistent record materialized from a completed checkout
// session. Field names are a public contract for reporting surfaces reading
// the content store directly.
type Order struct {
	ID                      string        `json:"_id" bson:"_id"`
	OrderNumber             string        `json:"orderNumber" bson:"orderNumber"`
	StripeCheckoutSessionID string        `json:"stripeCheckoutSessionId" bson:"stripeCheckoutSessionId"`
	StripePaymentIntentID   string        `json:"stripePaymentIntentId,omitempty" bson:"stripePaymentIntentId,omitempty"`
	CustomerName            string        `json:"customerName" bson:"customerName"`
	Email                   string        `json:"email" bson:"email"`
	UserID                  string        `json:"userId,omitempty" bson:"userId,omitempty"`
	Currency                string        `json:"currency" bson:"currency"`
	TotalPrice              float64       `json:"totalPrice" bson:"totalPrice"`
	AmountDiscount          float64       `json:"amountDiscount" bson:"amountDiscount"`
	Items                   []OrderItem   `json:"products" bson:"products"`
	Address                 *Address      `json:"address,omitempty" bson:"address,omitempty"`
	Invoice                 *OrderInvoice `json:"invoice,omitempty" bson:"invoice,omitempty"`
	Status                  string        `json:"status" bson:"status"`
	OrderDate               time.Time     `json:"orderDate" bson:"orderDate"`
}
