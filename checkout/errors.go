package checkout

import (
	"errors"
	"fmt"
	"strings"
)

// Step identifies how far a checkout attempt progressed before failing.
type Step string

const (
	StepValidate    Step = "validate"
	StepSnapshot    Step = "snapshot"
	StepReserve     Step = "reserve"
	StepRecordOrder Step = "record-order"
	StepClearCart   Step = "clear-cart"
)

var (
	// ErrEmptyCart rejects checkout for a user with no cart or no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidAddress rejects checkout when the address is missing,
	// unresolvable, or owned by another user.
	ErrInvalidAddress = errors.New("address missing or not owned by user")
)

// InsufficientStockError reports a reservation refused for lack of stock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ProductRemovedError reports a cart line whose product no longer exists.
type ProductRemovedError struct {
	ProductID string
}

func (e *ProductRemovedError) Error() string {
	return fmt.Sprintf("product %s no longer exists", e.ProductID)
}

// ConflictError reports a reservation that kept losing the race against
// concurrent writers after the bounded retry was spent.
type ConflictError struct {
	ProductID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent stock update conflict on product %s", e.ProductID)
}

// RollbackError reports stock that stayed decremented because the
// compensating restore failed. This is the one path that can leave the store
// inconsistent, so it is always surfaced, never swallowed.
type RollbackError struct {
	ProductIDs []string
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("stock rollback failed for products: %s", strings.Join(e.ProductIDs, ", "))
}

// Error wraps any checkout failure with the step it happened in and what had
// already been committed, so callers can tell users exactly where the attempt
// stopped.
type Error struct {
	Step Step
	Err  error

	// Reference is a support id attached once stock was touched, for
	// failures users may need to report.
	Reference string

	// RolledBack lists product ids whose reservations were compensated.
	RolledBack []string

	// Stranded lists product ids left decremented after a failed rollback.
	Stranded []string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("checkout failed at %s: %v", e.Step, e.Err)
	if e.Reference != "" {
		msg += fmt.Sprintf(" (reference %s)", e.Reference)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
