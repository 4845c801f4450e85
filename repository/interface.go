package repository

import (
	"context"
	"errors"

	"storefront-service/models"
)

var ErrNotFound = errors.New("document not found")

// ProductRepo defines catalog access used by the storefront. Stock reads go
// through GetStock, which reports ErrInvalidStock when the stored field is not
// numeric so callers can apply the lenient skip policy.
type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindAll(ctx context.Context, limit, skip int64) ([]models.Product, error)
	GetStock(ctx context.Context, id string) (int, error)
	SetStock(ctx context.Context, id string, stock int) error
}

// OrderRepo defines order persistence. CreateIfAbsent is keyed on the Stripe
// checkout session id: the first call inserts, every later call for the same
// session is a no-op returning created=false.
type OrderRepo interface {
	CreateIfAbsent(ctx context.Context, order *models.Order) (created bool, err error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
}

// CartRepo persists one cart blob per user.
type CartRepo interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
