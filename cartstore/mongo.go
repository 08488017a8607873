package cartstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/models"
)

// MongoStore keeps carts in the "carts" collection, one document per
// customer. The collection carries a unique index on customer_id.
type MongoStore struct {
	Collection *mongo.Collection
}

// NewMongoStore creates a MongoStore bound to the carts collection
func NewMongoStore(client *mongo.Client) *MongoStore {
	collection := client.Database("storefront").Collection("carts")
	return &MongoStore{
		Collection: collection,
	}
}

// FindByCustomer retrieves the cart document for a customer
func (s *MongoStore) FindByCustomer(ctx context.Context, customerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// Save inserts the cart if it has no ID yet, otherwise overwrites its items
func (s *MongoStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now

	if cart.ID.IsZero() {
		cart.CreatedAt = now
		result, err := s.Collection.InsertOne(ctx, cart)
		if err != nil {
			return err
		}
		if id, ok := result.InsertedID.(primitive.ObjectID); ok {
			cart.ID = id
		}
		return nil
	}

	_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"updated_at": cart.UpdatedAt,
		},
	})
	return err
}

// DeleteByCustomer removes the cart document for a customer
func (s *MongoStore) DeleteByCustomer(ctx context.Context, customerID string) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
