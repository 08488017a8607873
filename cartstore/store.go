package cartstore

import (
	"context"
	"errors"

	"storefront/models"
)

// ErrCartNotFound is returned when no cart document exists for a customer.
var ErrCartNotFound = errors.New("cart not found")

// Store persists one cart document per customer. Operations are
// document-atomic; there are no cross-document transactions.
type Store interface {
	FindByCustomer(ctx context.Context, customerID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	DeleteByCustomer(ctx context.Context, customerID string) error
}
