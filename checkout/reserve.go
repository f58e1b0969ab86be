package checkout

import (
	"context"
	"errors"

	"github.com/eshop-labs/eshop-backend-go/metrics"
	"github.com/eshop-labs/eshop-backend-go/store"
)

// reserveLine claims qty units of one product's stock. The decrement is a
// single conditional write, so two concurrent reservations can never both
// pass a stale check. When the write is refused the product is re-read to
// classify the failure; a refusal that the re-read contradicts means a
// concurrent writer raced us between the two reads, which earns exactly one
// retry.
func (w *Workflow) reserveLine(ctx context.Context, productID string, qty int) error {
	const attempts = 2

	for i := 0; i < attempts; i++ {
		ok, err := w.stores.Products.DecrementStock(ctx, productID, qty)
		if errors.Is(err, store.ErrNotFound) {
			return &ProductRemovedError{ProductID: productID}
		}
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		metrics.ReservationConflicts.Inc()

		p, err := w.stores.Products.Get(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return &ProductRemovedError{ProductID: productID}
		}
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return &InsufficientStockError{
				ProductID: productID,
				Requested: qty,
				Available: p.Stock,
			}
		}
	}

	return &ConflictError{ProductID: productID}
}

// rollbackReservations compensates every reservation committed in this
// attempt, newest first. It returns the ids restored and the ids left
// decremented; the latter must be surfaced to the caller.
func (w *Workflow) rollbackReservations(ctx context.Context, reserved []reservation) (rolledBack, stranded []string) {
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := w.stores.Products.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			metrics.RollbackFailures.Inc()
			stranded = append(stranded, r.productID)
			continue
		}
		rolledBack = append(rolledBack, r.productID)
	}
	return rolledBack, stranded
}
