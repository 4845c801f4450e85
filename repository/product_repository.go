package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidStock is returned when a product document carries a stock field
// that is not a number.
var ErrInvalidStock = errors.New("product stock is not a valid number")

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *MongoProductRepository) FindAll(ctx context.Context, limit, skip int64) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.M{"title": 1})
	if limit > 0 {
		findOptions.SetLimit(limit).SetSkip(skip)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetStock reads only the stock field and validates that it is numeric. The
// raw document is probed instead of decoding into the typed model so a
// malformed field surfaces as ErrInvalidStock rather than a decode failure
// for the whole document.
func (r *MongoProductRepository) GetStock(ctx context.Context, id string) (int, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"stock": 1})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find product stock: %w", err)
	}

	switch v := doc["stock"].(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, ErrInvalidStock
	}
}

func (r *MongoProductRepository) SetStock(ctx context.Context, id string, stock int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stock": stock, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
