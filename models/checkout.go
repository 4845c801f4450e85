package models

// Address is a delivery address snapshot. It travels through Stripe session
// metadata as a JSON string and is copied verbatim onto the order.
type Address struct {
	Name    string `json:"name,omitempty" bson:"name,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
}

// CheckoutMetadata is created once per checkout attempt and passed opaquely
// through Stripe; the webhook gets it back verbatim on the completed session.
type CheckoutMetadata struct {
	OrderNumber   string   `json:"orderNumber"`
	CustomerName  string   `json:"customerName"`
	CustomerEmail string   `json:"customerEmail"`
	UserID        string   `json:"userId,omitempty"`
	Address       *Address `json:"address,omitempty"`
}
