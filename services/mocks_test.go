package services

import (
	"context"
	"sync"

	"storefront-service/models"
	"storefront-service/repository"

	"github.com/stripe/stripe-go/v80"
)

// ---- mock payment gateway ----

type mockGateway struct {
	customerID    string
	customerErr   error
	createdParams *stripe.CheckoutSessionParams
	session       *stripe.CheckoutSession
	createErr     error
	lineItems     []*stripe.LineItem
	lineItemsErr  error
	invoice       *stripe.Invoice
	invoiceErr    error
}

func (m *mockGateway) FindCustomerIDByEmail(email string) (string, error) {
	return m.customerID, m.customerErr
}

func (m *mockGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.createdParams = params
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.session != nil {
		return m.session, nil
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

func (m *mockGateway) SessionLineItems(sessionID string) ([]*stripe.LineItem, error) {
	return m.lineItems, m.lineItemsErr
}

func (m *mockGateway) GetInvoice(invoiceID string) (*stripe.Invoice, error) {
	return m.invoice, m.invoiceErr
}

// ---- mock order repo ----

type mockOrderRepo struct {
	mu        sync.Mutex
	bySession map[string]*models.Order
	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{bySession: map[string]*models.Order{}}
}

func (m *mockOrderRepo) CreateIfAbsent(_ context.Context, order *models.Order) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySession[order.StripeCheckoutSessionID]; ok {
		return false, nil
	}
	m.bySession[order.StripeCheckoutSessionID] = order
	return true, nil
}

func (m *mockOrderRepo) FindBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.bySession[sessionID]; ok {
		return order, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, order := range m.bySession {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

// ---- mock product repo ----

type mockProductRepo struct {
	mu           sync.Mutex
	products     map[string]*models.Product
	invalidStock map[string]bool
	setStockErr  map[string]error
	stockWrites  map[string]int
}

func newMockProductRepo(products ...*models.Product) *mockProductRepo {
	repo := &mockProductRepo{
		products:     map[string]*models.Product{},
		invalidStock: map[string]bool{},
		setStockErr:  map[string]error{},
		stockWrites:  map[string]int{},
	}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProductRepo) FindAll(_ context.Context, _, _ int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Product
	for _, p := range m.products {
		all = append(all, *p)
	}
	return all, nil
}

func (m *mockProductRepo) GetStock(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invalidStock[id] {
		return 0, repository.ErrInvalidStock
	}
	if p, ok := m.products[id]; ok {
		return p.Stock, nil
	}
	return 0, repository.ErrNotFound
}

func (m *mockProductRepo) SetStock(_ context.Context, id string, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.setStockErr[id]; err != nil {
		return err
	}
	if p, ok := m.products[id]; ok {
		p.Stock = stock
		m.stockWrites[id]++
		return nil
	}
	return repository.ErrNotFound
}

// ---- mock cart repo ----

type mockCartRepo struct {
	mu      sync.Mutex
	carts   map[string]*models.Cart
	getErr  error
	saveErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: map[string]*models.Cart{}}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[userID], nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

// ---- mock inventory adjuster ----

type mockInventory struct {
	mu       sync.Mutex
	sessions []string
	updates  [][]StockUpdate
}

func (m *mockInventory) Adjust(_ context.Context, sessionID string, updates []StockUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, sessionID)
	m.updates = append(m.updates, updates)
}
