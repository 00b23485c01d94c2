package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Rakhulsr/mellomelt/app/db/seeders"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/stretchr/testify/require"
)

func testCatalog(t testing.TB) repositories.ProductRepositoryImpl {
	t.Helper()
	catalog, err := repositories.NewProductRepository(seeders.Products(), seeders.Categories())
	require.NoError(t, err)
	return catalog
}

func product(t testing.TB, catalog repositories.ProductRepositoryImpl, id string) models.Product {
	t.Helper()
	p, err := catalog.GetByID(context.Background(), id)
	require.NoError(t, err)
	return *p
}

func validAddress() models.AddressForm {
	return models.AddressForm{
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Address:  "12 MG Road, Indiranagar",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "500001",
	}
}

// fakePlacer records orders. When gate is set, PlaceOrder signals entered
// and then waits for gate to close or ctx to end.
type fakePlacer struct {
	mu      sync.Mutex
	orders  []*models.Order
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakePlacer) PlaceOrder(ctx context.Context, order *models.Order) error {
	if f.gate != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakePlacer) placed() []*models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Order(nil), f.orders...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
}

func (n *recordingNotifier) OrderPlaced(ctx context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.OrderNumber)
}
