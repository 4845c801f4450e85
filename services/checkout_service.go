package services

import (
	"encoding/json"
	"fmt"
	"math"

	"storefront-service/models"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

const checkoutCurrency = "usd"

// CheckoutService converts a grouped cart plus order metadata into a hosted
// Stripe checkout session. It performs no local writes; any Stripe error
// propagates unchanged to the caller.
type CheckoutService struct {
	gateway PaymentGateway
	baseURL string
	logger  *zap.Logger
}

func NewCheckoutService(gateway PaymentGateway, baseURL string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{gateway: gateway, baseURL: baseURL, logger: logger}
}

// CreateSession looks up an existing Stripe customer by email, builds the
// session request and creates it, returning the hosted checkout URL.
func (s *CheckoutService) CreateSession(items []CheckoutItem, meta models.CheckoutMetadata) (string, error) {
	if len(items) == 0 {
		return "", ErrCartEmpty
	}

	customerID, err := s.gateway.FindCustomerIDByEmail(meta.CustomerEmail)
	if err != nil {
		return "", fmt.Errorf("look up customer: %w", err)
	}

	params := BuildSessionParams(items, meta, s.baseURL, customerID)

	sess, err := s.gateway.CreateCheckoutSession(params)
	if err != nil {
		return "", err
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("order_number", meta.OrderNumber),
	)
	return sess.URL, nil
}

// BuildSessionParams assembles the Stripe checkout session request. Unit
// prices are converted to minor units with math.Round, i.e. halves round
// away from zero. Metadata fields are flattened to strings, with the address
// serialized as JSON text so the webhook can restore it.
func BuildSessionParams(items []CheckoutItem, meta models.CheckoutMetadata, baseURL, customerID string) *stripe.CheckoutSessionParams {
	addressJSON, _ := json.Marshal(meta.Address)

	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		AllowPromotionCodes: stripe.Bool(true),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		},
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/success?session_id={CHECKOUT_SESSION_ID}&orderNumber=%s", baseURL, meta.OrderNumber)),
		CancelURL: stripe.String(baseURL + "/cart"),
	}

	params.AddMetadata("orderNumber", meta.OrderNumber)
	params.AddMetadata("customerName", meta.CustomerName)
	params.AddMetadata("customerEmail", meta.CustomerEmail)
	params.AddMetadata("userId", meta.UserID)
	params.AddMetadata("address", string(addressJSON))

	if customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		// Stripe creates a customer record implicitly from the email.
		params.CustomerEmail = stripe.String(meta.CustomerEmail)
	}

	for _, item := range items {
		name := item.Product.Name
		if name == "" {
			name = "Unknown Product"
		}

		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(name),
			Metadata: map[string]string{"id": item.Product.ID},
		}
		if item.Product.Description != "" {
			productData.Description = stripe.String(item.Product.Description)
		}
		if len(item.Product.Images) > 0 {
			productData.Images = stripe.StringSlice(item.Product.Images[:1])
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(checkoutCurrency),
				UnitAmount:  stripe.Int64(ToMinorUnits(item.Product.Price)),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	return params
}

// ToMinorUnits converts a decimal price to integer minor currency units.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
