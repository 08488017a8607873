package cartstore

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
)

// MemoryStore keeps carts in a map guarded by a mutex. Used in tests and
// when running without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*models.Cart
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*models.Cart),
	}
}

func (s *MemoryStore) FindByCustomer(ctx context.Context, customerID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[customerID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) Save(ctx context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cart.UpdatedAt = now
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
		cart.CreatedAt = now
	}
	s.carts[cart.CustomerID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) DeleteByCustomer(ctx context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[customerID]; !ok {
		return ErrCartNotFound
	}
	delete(s.carts, customerID)
	return nil
}

// copyCart returns a deep copy so callers never alias the stored slice
func copyCart(cart *models.Cart) *models.Cart {
	dup := *cart
	dup.Items = make([]models.CartItem, len(cart.Items))
	copy(dup.Items, cart.Items)
	return &dup
}
