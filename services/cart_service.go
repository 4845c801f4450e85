package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)

// CheckoutItem is a grouped cart entry with the full catalog product
// resolved, ready for the session builder.
type CheckoutItem struct {
	Product  models.Product
	Quantity int
}

// CartStore owns cart lines and derived totals for a user.
type CartStore interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	GetTotal(ctx context.Context, userID string) (float64, error)
	GetGroupedItems(ctx context.Context, userID string) ([]CheckoutItem, error)
	Reset(ctx context.Context, userID string) error
}

// CartService implements CartStore on top of the cart and product
// repositories.
type CartService struct {
	carts    repository.CartRepo
	products repository.ProductRepo
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepo, products repository.ProductRepo, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// AddItem merges quantity onto the user's cart line for the product. The add
// is rejected when the resulting quantity would exceed available stock, so a
// zero-stock product never reaches checkout.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Lines: []models.CartLine{}}
	}

	if cart.Quantity(productID)+quantity > product.Stock {
		return nil, fmt.Errorf("%w: product=%s stock=%d", ErrInsufficientStock, productID, product.Stock)
	}

	cart.AddLine(models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	})

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || !cart.RemoveLine(productID) {
		return nil, repository.ErrNotFound
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Lines: []models.CartLine{}}
	}
	return cart, nil
}

func (s *CartService) GetTotal(ctx context.Context, userID string) (float64, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

// GetGroupedItems resolves each cart line to its full catalog product.
// Lines whose product has disappeared from the catalog are dropped with a
// warning rather than failing the whole cart.
func (s *CartService) GetGroupedItems(ctx context.Context, userID string) ([]CheckoutItem, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]CheckoutItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("Dropping cart line for missing product",
					zap.String("user_id", userID),
					zap.String("product_id", line.ProductID),
				)
				continue
			}
			return nil, err
		}
		items = append(items, CheckoutItem{Product: *product, Quantity: line.Quantity})
	}

	if len(items) == 0 {
		return nil, ErrCartEmpty
	}
	return items, nil
}

func (s *CartService) Reset(ctx context.Context, userID string) error {
	return s.carts.DeleteCart(ctx, userID)
}
