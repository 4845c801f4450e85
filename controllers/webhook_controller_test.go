package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront-service/controllers"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test_secret"

// ---- mocks ----

type stubGateway struct {
	lineItems  []*stripe.LineItem
	invoice    *stripe.Invoice
	invoiceErr error
}

func (g *stubGateway) FindCustomerIDByEmail(string) (string, error) { return "", nil }
func (g *stubGateway) CreateCheckoutSession(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return nil, errors.New("not used")
}
func (g *stubGateway) SessionLineItems(string) ([]*stripe.LineItem, error) {
	return g.lineItems, nil
}
func (g *stubGateway) GetInvoice(string) (*stripe.Invoice, error) {
	return g.invoice, g.invoiceErr
}

type stubOrderRepo struct {
	mu        sync.Mutex
	bySession map[string]*models.Order
	createErr error
}

func (r *stubOrderRepo) CreateIfAbsent(_ context.Context, order *models.Order) (bool, error) {
	if r.createErr != nil {
		return false, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySession[order.StripeCheckoutSessionID]; ok {
		return false, nil
	}
	r.bySession[order.StripeCheckoutSessionID] = order
	return true, nil
}
func (r *stubOrderRepo) FindBySessionID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.bySession[id]; ok {
		return order, nil
	}
	return nil, repository.ErrNotFound
}
func (r *stubOrderRepo) FindByUserID(context.Context, string) ([]models.Order, error) {
	return nil, nil
}

type stubInventory struct {
	mu    sync.Mutex
	calls int
}

func (s *stubInventory) Adjust(_ context.Context, _ string, _ []services.StockUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

// ---- helpers ----

func newWebhookRouter(secret string, gw *stubGateway, orders *stubOrderRepo, inv *stubInventory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	zlog := zap.NewNop()

	stripeSvc := &services.StripeService{WebhookSecret: secret}
	orderSvc := services.NewOrderService(gw, orders, inv, zlog)
	wc := controllers.NewWebhookController(stripeSvc, orderSvc, zlog)

	r := gin.New()
	r.POST("/stripe/webhook", wc.StripeWebhook)
	return r
}

func eventPayload(t *testing.T, eventType string, object json.RawMessage) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          "evt_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]interface{}{"object": object},
	})
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}
	return payload
}

func signPayload(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%x", now.Unix(), sig)
}

func postWebhook(r *gin.Engine, payload []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", bytes.NewReader(payload))
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionJSON(t *testing.T) json.RawMessage {
	t.Helper()
	sess := map[string]interface{}{
		"id":             "cs_test_99",
		"object":         "checkout.session",
		"amount_total":   4498,
		"currency":       "usd",
		"payment_intent": "pi_test_7",
		"metadata": map[string]string{
			"orderNumber":   "ord-123",
			"customerName":  "Ada Lovelace",
			"customerEmail": "ada@example.com",
			"userId":        "user-1",
		},
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return raw
}

// sessionWithInvoiceJSON is sessionJSON plus an unexpanded invoice reference,
// the shape Stripe delivers when invoice creation is enabled.
func sessionWithInvoiceJSON(t *testing.T) json.RawMessage {
	t.Helper()
	var sess map[string]interface{}
	if err := json.Unmarshal(sessionJSON(t), &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	sess["invoice"] = "in_test_5"
	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	return raw
}

func lineItems() []*stripe.LineItem {
	return []*stripe.LineItem{
		{ID: "li_1", Quantity: 2, Price: &stripe.Price{Product: &stripe.Product{Metadata: map[string]string{"id": "prod-a"}}}},
		{ID: "li_2", Quantity: 1, Price: &stripe.Price{Product: &stripe.Product{Metadata: map[string]string{"id": "prod-b"}}}},
	}
}

// ---- tests ----

func TestStripeWebhook_MissingSignature(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{}, orders, &stubInventory{})

	payload := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	w := postWebhook(r, payload, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Empty(t, orders.bySession)
}

func TestStripeWebhook_MissingSecret(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	r := newWebhookRouter("", &stubGateway{}, orders, &stubInventory{})

	payload := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, orders.bySession)
}

func TestStripeWebhook_TamperedBodyRejected(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	inv := &stubInventory{}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{lineItems: lineItems()}, orders, inv)

	original := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	sig := signPayload(original, testWebhookSecret)
	tampered := bytes.Replace(original, []byte("4498"), []byte("1"), 1)

	w := postWebhook(r, tampered, sig)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, orders.bySession)
	assert.Zero(t, inv.calls)
}

func TestStripeWebhook_IgnoredEventType(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{}, orders, &stubInventory{})

	payload := eventPayload(t, "payment_intent.succeeded", json.RawMessage(`{"id":"pi_1"}`))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
	assert.Empty(t, orders.bySession)
}

func TestStripeWebhook_CheckoutCompletedCreatesOrder(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	inv := &stubInventory{}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{lineItems: lineItems()}, orders, inv)

	payload := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	order, err := orders.FindBySessionID(context.Background(), "cs_test_99")
	assert.NoError(t, err)
	assert.Equal(t, "ord-123", order.OrderNumber)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 1, inv.calls)
}

func TestStripeWebhook_InvoiceSnapshotOnOrder(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	gw := &stubGateway{
		lineItems: lineItems(),
		invoice:   &stripe.Invoice{ID: "in_test_5", Number: "INV-0042", HostedInvoiceURL: "https://stripe.test/in_test_5"},
	}
	r := newWebhookRouter(testWebhookSecret, gw, orders, &stubInventory{})

	payload := eventPayload(t, "checkout.session.completed", sessionWithInvoiceJSON(t))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, http.StatusOK, w.Code)

	order, err := orders.FindBySessionID(context.Background(), "cs_test_99")
	assert.NoError(t, err)
	assert.NotNil(t, order.Invoice)
	assert.Equal(t, "INV-0042", order.Invoice.Number)
}

func TestStripeWebhook_InvoiceFetchFailureStillFulfills(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	inv := &stubInventory{}
	gw := &stubGateway{
		lineItems:  lineItems(),
		invoiceErr: errors.New("stripe: invoice unavailable"),
	}
	r := newWebhookRouter(testWebhookSecret, gw, orders, inv)

	payload := eventPayload(t, "checkout.session.completed", sessionWithInvoiceJSON(t))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	// the invoice is enrichment only: the order still lands, without it
	assert.Equal(t, http.StatusOK, w.Code)

	order, err := orders.FindBySessionID(context.Background(), "cs_test_99")
	assert.NoError(t, err)
	assert.Nil(t, order.Invoice)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 1, inv.calls)
}

func TestStripeWebhook_MaterializationFailureIsRetryable(t *testing.T) {
	orders := &stubOrderRepo{
		bySession: map[string]*models.Order{},
		createErr: errors.New("content store unavailable"),
	}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{lineItems: lineItems()}, orders, &stubInventory{})

	payload := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	w := postWebhook(r, payload, signPayload(payload, testWebhookSecret))

	// 400 signals Stripe's dispatcher to redeliver
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestStripeWebhook_RedeliveryDoesNotDuplicate(t *testing.T) {
	orders := &stubOrderRepo{bySession: map[string]*models.Order{}}
	inv := &stubInventory{}
	r := newWebhookRouter(testWebhookSecret, &stubGateway{lineItems: lineItems()}, orders, inv)

	payload := eventPayload(t, "checkout.session.completed", sessionJSON(t))
	sig := signPayload(payload, testWebhookSecret)

	first := postWebhook(r, payload, sig)
	second := postWebhook(r, payload, sig)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, orders.bySession, 1)
	assert.Equal(t, 1, inv.calls)
}
