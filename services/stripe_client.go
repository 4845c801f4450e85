package services

import (
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/customer"
	"github.com/stripe/stripe-go/v80/invoice"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentGateway is the slice of the Stripe API this service depends on.
// Checkout and order materialization are written against it so they can be
// tested without network access.
type PaymentGateway interface {
	FindCustomerIDByEmail(email string) (string, error)
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	SessionLineItems(sessionID string) ([]*stripe.LineItem, error)
	GetInvoice(invoiceID string) (*stripe.Invoice, error)
}

// StripeService implements PaymentGateway against the live Stripe API and
// owns webhook signature verification.
type StripeService struct {
	WebhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{WebhookSecret: webhookSecret}
}

// FindCustomerIDByEmail returns the id of an existing Stripe customer with an
// exact email match, or "" when none exists.
func (s *StripeService) FindCustomerIDByEmail(email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)

	iter := customer.List(params)
	for iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return "", nil
}

func (s *StripeService) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// SessionLineItems re-fetches the purchased line items from Stripe's record
// of the completed session, with the product expanded so its metadata is
// available.
func (s *StripeService) SessionLineItems(sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.AddExpand("data.price.product")

	var items []*stripe.LineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *StripeService) GetInvoice(invoiceID string) (*stripe.Invoice, error) {
	return invoice.Get(invoiceID, nil)
}

// VerifyWebhook checks the signature header against the raw body and returns
// the parsed event. The verification algorithm itself is Stripe's.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
}
