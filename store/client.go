// Package store provides the resource client: a thin document interface over
// the named collections (products, carts, wishlists, addresses, orders,
// users), with a MongoDB implementation for production and an in-memory one
// for tests, plus typed repositories on top.
package store

import (
	"context"
	"errors"
)

// Collection names.
const (
	Products  = "products"
	Carts     = "carts"
	Wishlists = "wishlists"
	Addresses = "addresses"
	Orders    = "orders"
	Users     = "users"
)

// ErrNotFound is returned by Get and Update when no record has the given id.
var ErrNotFound = errors.New("store: record not found")

// Doc is a JSON-shaped document: string keys, values limited to the JSON
// types (string, float64, bool, nil, []any, map[string]any).
type Doc map[string]any

// Filter selects records by field equality.
type Filter map[string]any

// Client is the resource-client surface every domain component talks to.
type Client interface {
	// List returns all records of a collection matching the equality filter.
	List(ctx context.Context, collection string, filter Filter) ([]Doc, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Doc, error)

	// Create stores a new record, assigning an id when the document carries
	// none, and returns the stored document.
	Create(ctx context.Context, collection string, doc Doc) (Doc, error)

	// Update merge-patches top-level fields of an existing record and returns
	// the updated document, or ErrNotFound.
	Update(ctx context.Context, collection, id string, fields Doc) (Doc, error)

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// IncrementWhere atomically applies field += delta, but only when the
	// result would not drop below floor. It reports whether the update was
	// applied; a missing record is an error. This is the conditional-write
	// primitive the stock reservation step depends on.
	IncrementWhere(ctx context.Context, collection, id, field string, delta, floor int) (bool, error)
}
