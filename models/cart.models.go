package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart. Lines are keyed by (product_id, variant);
// an absent variant and an empty variant are the same key.
type CartItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Variant   string `bson:"variant,omitempty" json:"variant,omitempty"`

	// Product carries the resolved catalog entry on reads. Never persisted;
	// the cart stores only the product reference.
	Product *Product `bson:"-" json:"product,omitempty"`
}

// Cart represents a customer's shopping cart, one document per customer
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID string             `bson:"customer_id" json:"customerId"`
	Items      []CartItem         `bson:"items" json:"items"`
	CreatedAt  time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
