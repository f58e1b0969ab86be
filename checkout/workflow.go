// Package checkout implements order placement as a saga: sequential steps
// with compensating stock restores on partial failure, in lieu of a backend
// transaction.
package checkout

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/eshop-labs/eshop-backend-go/events"
	"github.com/eshop-labs/eshop-backend-go/metrics"
	"github.com/eshop-labs/eshop-backend-go/models"
	"github.com/eshop-labs/eshop-backend-go/store"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Workflow places orders. Steps run strictly sequentially inside one
// invocation; across invocations the only coordination is the conditional
// stock write in the reservation step.
type Workflow struct {
	stores  *store.Stores
	events  *events.Publisher
	timeout time.Duration
	now     func() time.Time
}

func New(stores *store.Stores, publisher *events.Publisher) *Workflow {
	return &Workflow{
		stores:  stores,
		events:  publisher,
		timeout: defaultTimeout,
		now:     time.Now,
	}
}

// Request is one checkout attempt. IdempotencyKey is optional: when set, a
// replay with the same key returns the order created the first time instead
// of placing a second one.
type Request struct {
	UserID         string
	AddressID      string
	IdempotencyKey string
}

type Result struct {
	Order models.Order

	// CartCleared is false when the order was placed but the stale cart
	// record could not be deleted. Cosmetic, not a correctness problem.
	CartCleared bool

	// Duplicate marks an idempotent replay: the order was placed by an
	// earlier request with the same key and no stock was touched now.
	Duplicate bool
}

type reservation struct {
	productID string
	quantity  int
}

// PlaceOrder runs one checkout attempt: validate, snapshot prices, reserve
// stock per line in ascending product id order, record the order, clear the
// cart. Any failure after stock was touched triggers compensation.
//
// The workflow detaches from the caller's context: once started, steps run
// to completion (or rollback) even if the requesting UI is torn down.
func (w *Workflow) PlaceOrder(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	// Idempotent replay first: after a successful placement the cart is
	// gone, so a retry with the same key must short-circuit before cart
	// validation or it would report an empty cart.
	if req.IdempotencyKey != "" {
		existing, err := w.stores.Orders.FindByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		if err == nil {
			return Result{Order: existing, CartCleared: true, Duplicate: true}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return w.fail(StepValidate, err)
		}
	}

	// Validate inputs.
	cart, err := w.stores.Carts.FindByUser(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return w.fail(StepValidate, ErrEmptyCart)
	}
	if err != nil {
		return w.fail(StepValidate, err)
	}
	if len(cart.Items) == 0 {
		return w.fail(StepValidate, ErrEmptyCart)
	}
	if req.AddressID == "" {
		return w.fail(StepValidate, ErrInvalidAddress)
	}
	addr, err := w.stores.Addresses.Get(ctx, req.AddressID)
	if errors.Is(err, store.ErrNotFound) {
		return w.fail(StepValidate, ErrInvalidAddress)
	}
	if err != nil {
		return w.fail(StepValidate, err)
	}
	if addr.UserID != req.UserID {
		return w.fail(StepValidate, ErrInvalidAddress)
	}

	// Snapshot prices. Order lines freeze the unit price as of now; later
	// catalog changes must not affect this order.
	lines := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, err := w.stores.Products.Get(ctx, it.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return w.fail(StepSnapshot, &ProductRemovedError{ProductID: it.ProductID})
		}
		if err != nil {
			return w.fail(StepSnapshot, err)
		}
		lines = append(lines, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}

	// Fixed reservation order: concurrent checkouts touching overlapping
	// products always claim stock in the same sequence.
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	reserved := make([]reservation, 0, len(lines))
	for _, ln := range lines {
		if err := w.reserveLine(ctx, ln.ProductID, ln.Quantity); err != nil {
			return w.failWithRollback(ctx, StepReserve, err, reserved)
		}
		reserved = append(reserved, reservation{productID: ln.ProductID, quantity: ln.Quantity})
	}

	order := models.Order{
		UserID:         req.UserID,
		Items:          lines,
		AddressID:      req.AddressID,
		Total:          models.OrderTotal(lines),
		Status:         models.OrderStatusOnProcess,
		CreatedAt:      w.now().UTC(),
		IdempotencyKey: req.IdempotencyKey,
	}
	created, err := w.stores.Orders.Create(ctx, order)
	if err != nil {
		return w.failWithRollback(ctx, StepRecordOrder, err, reserved)
	}

	// Clear the cart. A failure here leaves a stale cart behind but the
	// order stands, so this step never fails the workflow.
	cleared := true
	if err := w.stores.Carts.Delete(ctx, cart.ID); err != nil {
		log.Printf("checkout: order %s placed but cart %s not cleared: %v", created.ID, cart.ID, err)
		cleared = false
	}

	metrics.OrdersPlaced.Inc()
	w.events.OrderCreated(ctx, created)

	return Result{Order: created, CartCleared: cleared}, nil
}

func (w *Workflow) fail(step Step, err error) (Result, error) {
	metrics.PlacementFailures.WithLabelValues(string(step)).Inc()
	return Result{}, &Error{Step: step, Err: err}
}

// failWithRollback compensates committed reservations before surfacing the
// failure. A failed compensation outranks the original error: stranded stock
// is the one inconsistency callers must hear about.
func (w *Workflow) failWithRollback(ctx context.Context, step Step, cause error, reserved []reservation) (Result, error) {
	metrics.PlacementFailures.WithLabelValues(string(step)).Inc()

	e := &Error{Step: step, Err: cause}
	if len(reserved) == 0 {
		return Result{}, e
	}

	e.Reference = uuid.NewString()
	e.RolledBack, e.Stranded = w.rollbackReservations(ctx, reserved)
	if len(e.Stranded) > 0 {
		e.Err = &RollbackError{ProductIDs: e.Stranded}
		log.Printf("checkout: rollback failed, stock stranded for %v (cause: %v, reference %s)",
			e.Stranded, cause, e.Reference)
	}
	return Result{}, e
}
