package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog entry owned by a seller
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	ImageData   string             `bson:"image_data,omitempty" json:"imageData,omitempty"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"createdAt,omitempty"`
}
