package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client *store.MemoryClient
	stores *store.Stores
	wf     *Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := store.NewMemoryClient()
	stores := store.NewStores(client)
	return &fixture{client: client, stores: stores, wf: New(stores, nil)}
}

func (f *fixture) seedProduct(t *testing.T, id string, price float64, stock int) {
	t.Helper()
	_, err := f.stores.Products.Create(context.Background(), models.Product{
		ID: id, Title: "Product " + id, Price: price, Stock: stock,
	})
	require.NoError(t, err)
}

func (f *fixture) seedAddress(t *testing.T, id, userID string) {
	t.Helper()
	_, err := f.stores.Addresses.Create(context.Background(), models.Address{
		ID: id, UserID: userID, Label: "Home", Line1: "1 Main St", City: "Pune", State: "MH", Pincode: "411001",
	})
	require.NoError(t, err)
}

func (f *fixture) seedCart(t *testing.T, userID string, items ...models.CartItem) models.Cart {
	t.Helper()
	cart, err := f.stores.Carts.Create(context.Background(), models.Cart{UserID: userID, Items: items})
	require.NoError(t, err)
	return cart
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.stores.Products.Get(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	res, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
	require.NoError(t, err)

	assert.Equal(t, 200.0, res.Order.Total)
	assert.Equal(t, models.OrderStatusOnProcess, res.Order.Status)
	assert.Equal(t, "a1", res.Order.AddressID)
	assert.False(t, res.Order.CreatedAt.IsZero())
	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, 100.0, res.Order.Items[0].Price)
	assert.True(t, res.CartCleared)

	assert.Equal(t, 3, f.stock(t, "p1"))

	// Cart record must be gone.
	_, err = f.stores.Carts.FindByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// And the order must be readable back.
	stored, err := f.stores.Orders.Get(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Order.Total, stored.Total)
}

func TestPlaceOrder_TotalFrozenAgainstLaterPriceChange(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	res, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
	require.NoError(t, err)

	_, err = f.stores.Products.Update(context.Background(), "p1", store.Doc{"price": 999.0})
	require.NoError(t, err)

	reloaded, err := f.stores.Orders.Get(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, reloaded.Total)
	assert.Equal(t, 100.0, reloaded.Items[0].Price)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	f.seedAddress(t, "a1", "u1")

	// No cart record at all.
	_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// A cart with zero lines counts as empty too.
	f.seedCart(t, "u1")
	_, err = f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	var wfErr *Error
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, StepValidate, wfErr.Step)
}

func TestPlaceOrder_InvalidAddress(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a-other", "someone-else")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 1})

	tests := []struct {
		name      string
		addressID string
	}{
		{"missing address id", ""},
		{"unresolvable address", "nope"},
		{"address owned by another user", "a-other"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: tc.addressID})
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}

	// Nothing was touched by the failed attempts.
	assert.Equal(t, 5, f.stock(t, "p1"))
}

func TestPlaceOrder_ProductRemoved(t *testing.T) {
	f := newFixture(t)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "ghost", Quantity: 1})

	_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var removed *ProductRemovedError
	require.True(t, errors.As(err, &removed))
	assert.Equal(t, "ghost", removed.ProductID)
}

func TestPlaceOrder_InsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 1)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 3})

	_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "p1", insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	assert.Equal(t, 1, f.stock(t, "p1"), "failed placement must not decrement stock")

	cart, err := f.stores.Carts.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "failed placement must not clear the cart")

	orders, err := f.stores.Orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_PartialReservationIsRolledBack(t *testing.T) {
	f := newFixture(t)
	// p1 reserves fine, p2 fails; p1's decrement must be compensated.
	f.seedProduct(t, "p1", 10, 5)
	f.seedProduct(t, "p2", 20, 1)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1",
		models.CartItem{ProductID: "p1", Quantity: 2},
		models.CartItem{ProductID: "p2", Quantity: 2},
	)

	_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var wfErr *Error
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, StepReserve, wfErr.Step)
	assert.NotEmpty(t, wfErr.Reference)
	assert.Equal(t, []string{"p1"}, wfErr.RolledBack)
	assert.Empty(t, wfErr.Stranded)

	assert.Equal(t, 5, f.stock(t, "p1"))
	assert.Equal(t, 1, f.stock(t, "p2"))
}

func TestPlaceOrder_ConcurrentCheckoutsForLastUnit(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 1)
	f.seedAddress(t, "a1", "u1")
	f.seedAddress(t, "a2", "u2")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 1})
	f.seedCart(t, "u2", models.CartItem{ProductID: "p1", Quantity: 1})

	reqs := []Request{
		{UserID: "u1", AddressID: "a1"},
		{UserID: "u2", AddressID: "a2"},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reqs))
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			_, errs[i] = f.wf.PlaceOrder(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	successes, failures := 0, 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		failures++
		var insufficient *InsufficientStockError
		assert.True(t, errors.As(err, &insufficient), "loser must fail with insufficient stock, got %v", err)
	}
	assert.Equal(t, 1, successes, "exactly one checkout may win the last unit")
	assert.Equal(t, 1, failures)
	assert.Equal(t, 0, f.stock(t, "p1"))
}

func TestPlaceOrder_IdempotencyKeyReplayReturnsSameOrder(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	req := Request{UserID: "u1", AddressID: "a1", IdempotencyKey: "key-1"}

	first, err := f.wf.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	// Retry after success: the cart is already gone, the original order
	// must come back and stock must not move again.
	second, err := f.wf.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, 3, f.stock(t, "p1"))

	orders, err := f.stores.Orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrder_WithoutKeyDoubleSubmitPlacesTwoOrders(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")

	// Two sequential checkouts of fresh carts, no idempotency key: both
	// place, stock decrements twice.
	for i := 0; i < 2; i++ {
		f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 1})
		_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
		require.NoError(t, err)
	}

	orders, err := f.stores.Orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 3, f.stock(t, "p1"))
}

// failingClient wraps the memory client to inject faults per collection.
type failingClient struct {
	store.Client
	failCreate map[string]error
	failDelete map[string]error
	failRaise  bool // fail positive IncrementWhere (the rollback direction)
}

func (f *failingClient) Create(ctx context.Context, collection string, doc store.Doc) (store.Doc, error) {
	if err := f.failCreate[collection]; err != nil {
		return nil, err
	}
	return f.Client.Create(ctx, collection, doc)
}

func (f *failingClient) Delete(ctx context.Context, collection, id string) error {
	if err := f.failDelete[collection]; err != nil {
		return err
	}
	return f.Client.Delete(ctx, collection, id)
}

func (f *failingClient) IncrementWhere(ctx context.Context, collection, id, field string, delta, floor int) (bool, error) {
	if f.failRaise && delta > 0 {
		return false, errors.New("backend unavailable")
	}
	return f.Client.IncrementWhere(ctx, collection, id, field, delta, floor)
}

func TestPlaceOrder_OrderWriteFailureRollsBackStock(t *testing.T) {
	mem := store.NewMemoryClient()
	flaky := &failingClient{Client: mem, failCreate: map[string]error{}}
	stores := store.NewStores(flaky)
	wf := New(stores, nil)
	f := &fixture{client: mem, stores: stores, wf: wf}

	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	flaky.failCreate[store.Orders] = errors.New("backend unavailable")

	_, err := wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var wfErr *Error
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, StepRecordOrder, wfErr.Step)
	assert.NotEmpty(t, wfErr.Reference)
	assert.Equal(t, []string{"p1"}, wfErr.RolledBack)

	assert.Equal(t, 5, f.stock(t, "p1"), "reserved stock must be restored when the order write fails")

	cart, err := stores.Carts.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestPlaceOrder_RollbackFailureIsSurfacedNotSwallowed(t *testing.T) {
	mem := store.NewMemoryClient()
	flaky := &failingClient{Client: mem, failCreate: map[string]error{}, failRaise: true}
	stores := store.NewStores(flaky)
	wf := New(stores, nil)
	f := &fixture{client: mem, stores: stores, wf: wf}

	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	flaky.failCreate[store.Orders] = errors.New("backend unavailable")

	_, err := wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var wfErr *Error
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, []string{"p1"}, wfErr.Stranded)
	assert.NotEmpty(t, wfErr.Reference)

	var rollback *RollbackError
	require.True(t, errors.As(err, &rollback))
	assert.Equal(t, []string{"p1"}, rollback.ProductIDs)

	// The stranded decrement is reported, not hidden: stock stays at 3.
	assert.Equal(t, 3, f.stock(t, "p1"))
}

func TestPlaceOrder_CartDeleteFailureIsNonFatal(t *testing.T) {
	mem := store.NewMemoryClient()
	flaky := &failingClient{Client: mem, failDelete: map[string]error{store.Carts: errors.New("backend unavailable")}}
	stores := store.NewStores(flaky)
	wf := New(stores, nil)
	f := &fixture{client: mem, stores: stores, wf: wf}

	f.seedProduct(t, "p1", 100, 5)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1", models.CartItem{ProductID: "p1", Quantity: 2})

	res, err := wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})
	require.NoError(t, err, "a stale cart must not fail a placed order")
	assert.False(t, res.CartCleared)
	assert.Equal(t, 3, f.stock(t, "p1"))

	stored, err := stores.Orders.Get(context.Background(), res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, stored.Total)
}

func TestPlaceOrder_ReservesInAscendingProductIDOrder(t *testing.T) {
	f := newFixture(t)
	// Cart lines deliberately out of order; p1 must be reserved (and thus
	// reported insufficient) before p2 is touched.
	f.seedProduct(t, "p2", 10, 5)
	f.seedProduct(t, "p1", 10, 0)
	f.seedAddress(t, "a1", "u1")
	f.seedCart(t, "u1",
		models.CartItem{ProductID: "p2", Quantity: 1},
		models.CartItem{ProductID: "p1", Quantity: 1},
	)

	_, err := f.wf.PlaceOrder(context.Background(), Request{UserID: "u1", AddressID: "a1"})

	var insufficient *InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "p1", insufficient.ProductID)
	assert.Equal(t, 5, f.stock(t, "p2"), "later lines must stay untouched when an earlier line fails")
}
