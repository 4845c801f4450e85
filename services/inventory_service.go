package services

import (
	"context"
	"errors"
	"sync"

	"storefront-service/repository"

	"go.uber.org/zap"
)

// StockUpdate is one purchased product with its quantity to deduct.
type StockUpdate struct {
	ProductID string
	Quantity  int64
}

// InventoryAdjuster decrements stock counters after an order is created.
type InventoryAdjuster interface {
	Adjust(ctx context.Context, sessionID string, updates []StockUpdate)
}

// InventoryService applies stock decrements against the catalog. Every
// product is handled independently: a missing product, a non-numeric stock
// field or a failed write is logged and skipped, never aborting the rest of
// the batch. Partial inventory drift is preferred over blocking fulfillment.
type InventoryService struct {
	products repository.ProductRepo
	logger   *zap.Logger
}

func NewInventoryService(products repository.ProductRepo, logger *zap.Logger) *InventoryService {
	return &InventoryService{products: products, logger: logger}
}

// Adjust runs the updates as independent tasks joined before returning, so
// webhook latency stays bounded for large carts. Stock is floored at zero;
// overselling accumulates against the zero floor instead of going negative.
func (s *InventoryService) Adjust(ctx context.Context, sessionID string, updates []StockUpdate) {
	var wg sync.WaitGroup
	for _, update := range updates {
		wg.Add(1)
		go func(u StockUpdate) {
			defer wg.Done()
			s.adjustOne(ctx, sessionID, u)
		}(update)
	}
	wg.Wait()
}

func (s *InventoryService) adjustOne(ctx context.Context, sessionID string, u StockUpdate) {
	stock, err := s.products.GetStock(ctx, u.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidStock) {
			s.logger.Warn("Skipping stock update for invalid product",
				zap.String("session_id", sessionID),
				zap.String("product_id", u.ProductID),
				zap.Error(err),
			)
			return
		}
		s.logger.Error("Failed to read stock",
			zap.String("session_id", sessionID),
			zap.String("product_id", u.ProductID),
			zap.Error(err),
		)
		return
	}

	newStock := stock - int(u.Quantity)
	if newStock < 0 {
		newStock = 0
	}

	if err := s.products.SetStock(ctx, u.ProductID, newStock); err != nil {
		s.logger.Error("Failed to update stock",
			zap.String("session_id", sessionID),
			zap.String("product_id", u.ProductID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Stock updated",
		zap.String("product_id", u.ProductID),
		zap.Int64("purchased", u.Quantity),
		zap.Int("new_stock", newStock),
	)
}
