package repository

import (
	"context"
	"fmt"

	"storefront-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

// EnsureIndexes creates the unique index backing the conditional create.
func (r *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"stripeCheckoutSessionId": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create order index: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the order unless one already exists for the same
// Stripe checkout session. Webhook redeliveries therefore land on the
// existing document instead of creating a duplicate.
func (r *MongoOrderRepository) CreateIfAbsent(ctx context.Context, order *models.Order) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"stripeCheckoutSessionId": order.StripeCheckoutSessionID},
		bson.M{"$setOnInsert": order},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("create order: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *MongoOrderRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"stripeCheckoutSessionId": sessionID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"orderDate": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
