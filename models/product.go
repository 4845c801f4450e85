package models

import "time"

// Product is a catalog document in the content store. IDs are the content
// store's own string document ids, which is also what gets embedded in Stripe
// product metadata during checkout.
type Product struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
