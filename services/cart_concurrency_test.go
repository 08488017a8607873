package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Concurrent adds of the same (product, variant) pair must never lose a
// merge: the per-customer lock serializes the read-modify-write cycle.
func TestCart_ConcurrentAdds_NoLostUpdate(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	customerID := uuid.NewString()

	const n = 50
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.AddItem(ctx, customerID, "p1", 1, "M")
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := svc.GetCart(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, n, cart.Items[0].Quantity)
}

// Adds for different customers run independently; none of them may bleed
// into another customer's cart.
func TestCart_ConcurrentAdds_DistinctCustomers(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	customers := make([]string, 8)
	for i := range customers {
		customers[i] = uuid.NewString()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range customers {
		customerID := id
		for i := 0; i < 10; i++ {
			g.Go(func() error {
				_, err := svc.AddItem(ctx, customerID, "p1", 2, "")
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	for _, id := range customers {
		cart, err := svc.GetCart(ctx, id)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 20, cart.Items[0].Quantity)
	}
}
