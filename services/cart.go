package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/cartstore"
	"storefront/catalog"
	"storefront/models"
)

var (
	// ErrInvalidInput marks malformed or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrItemNotFound is returned when the cart exists but holds no
	// matching line item.
	ErrItemNotFound = errors.New("item not found in cart")
)

// ProductResolver resolves a product reference to its current catalog entry.
type ProductResolver interface {
	Resolve(ctx context.Context, productID string) (*models.Product, error)
}

// CartService owns all cart mutations. Writes for one customer are
// serialized through a per-customer mutex, so two concurrent adds can never
// lose each other's merge; operations on different customers run in parallel.
type CartService struct {
	store    cartstore.Store
	resolver ProductResolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService creates a CartService backed by the given store and resolver
func NewCartService(store cartstore.Store, resolver ProductResolver) *CartService {
	return &CartService{
		store:    store,
		resolver: resolver,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockCustomer acquires the single-writer lock for a customer and returns
// the matching unlock.
func (s *CartService) lockCustomer(customerID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[customerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[customerID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// GetCart returns the customer's cart with each line item's product
// reference resolved against the catalog.
func (s *CartService) GetCart(ctx context.Context, customerID string) (*models.Cart, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	cart, err := s.store.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds a product to the customer's cart, creating the cart on first
// use. Repeated adds of the same (productId, variant) pair increment the
// existing line's quantity instead of appending a duplicate.
func (s *CartService) AddItem(ctx context.Context, customerID, productID string, quantity int, variant string) (*models.Cart, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	cart, err := s.store.FindByCustomer(ctx, customerID)
	if err != nil {
		if !errors.Is(err, cartstore.ErrCartNotFound) {
			return nil, err
		}
		cart = &models.Cart{
			CustomerID: customerID,
			Items:      []models.CartItem{{ProductID: productID, Quantity: quantity, Variant: variant}},
		}
	} else {
		merged := false
		for i, item := range cart.Items {
			if item.ProductID == productID && item.Variant == variant {
				cart.Items[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, models.CartItem{
				ProductID: productID,
				Quantity:  quantity,
				Variant:   variant,
			})
		}
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetItemQuantity overwrites a line item's quantity; zero removes the line.
// A nil variant targets the first item matching productID, a non-nil variant
// targets the exact (productID, variant) line. A cart emptied this way is
// persisted as an empty document, not deleted.
func (s *CartService) SetItemQuantity(ctx context.Context, customerID, productID string, quantity int, variant *string) (*models.Cart, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	cart, err := s.store.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := findItem(cart.Items, productID, variant)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line item; targeting follows SetItemQuantity.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID string, variant *string) (*models.Cart, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	cart, err := s.store.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := findItem(cart.Items, productID, variant)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.resolveProducts(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes the customer's cart document entirely.
func (s *CartService) ClearCart(ctx context.Context, customerID string) error {
	if customerID == "" {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	unlock := s.lockCustomer(customerID)
	defer unlock()

	return s.store.DeleteByCustomer(ctx, customerID)
}

// findItem locates a line item. With a nil variant the first productID match
// wins; otherwise both fields must match exactly.
func findItem(items []models.CartItem, productID string, variant *string) int {
	for i, item := range items {
		if item.ProductID != productID {
			continue
		}
		if variant == nil || item.Variant == *variant {
			return i
		}
	}
	return -1
}

// resolveProducts joins line items against the catalog. A dangling product
// reference leaves the item's product nil; the line itself is kept.
func (s *CartService) resolveProducts(ctx context.Context, cart *models.Cart) error {
	for i := range cart.Items {
		product, err := s.resolver.Resolve(ctx, cart.Items[i].ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				cart.Items[i].Product = nil
				continue
			}
			return err
		}
		cart.Items[i].Product = product
	}
	return nil
}
