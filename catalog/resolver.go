package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/models"
)

// ErrProductNotFound is returned when a product reference cannot be resolved.
var ErrProductNotFound = errors.New("product not found")

// MongoResolver looks up catalog entries in the "products" collection.
type MongoResolver struct {
	Collection *mongo.Collection
}

// NewMongoResolver creates a resolver bound to the products collection
func NewMongoResolver(client *mongo.Client) *MongoResolver {
	collection := client.Database("storefront").Collection("products")
	return &MongoResolver{
		Collection: collection,
	}
}

// Resolve fetches the current catalog entry for a product reference
func (r *MongoResolver) Resolve(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		// A reference that never was a valid ID resolves to nothing
		// rather than failing the whole cart read.
		return nil, ErrProductNotFound
	}

	var product models.Product
	err = r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
