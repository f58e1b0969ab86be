package models

import (
	"errors"
	"fmt"
)

// ErrOutOfStock is returned when a product with zero stock is added to a cart
// or wishlist.
var ErrOutOfStock = errors.New("product is out of stock")

// PriceUnavailableError reports a cart line whose product price could not be
// resolved while computing a total.
type PriceUnavailableError struct {
	ProductID string
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("price unavailable for product %s", e.ProductID)
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart holds the pre-checkout lines for one user. At most one cart exists per
// user; the record is created on first add and deleted when the last line is
// removed or an order is confirmed.
//
// Invariants: at most one line per productId, every quantity >= 1.
type Cart struct {
	ID     string     `json:"id,omitempty"`
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// AddItem merges qty units of a product into the cart and returns the updated
// cart. Quantities below 1 count as 1. Adding a product whose available stock
// is zero fails with ErrOutOfStock. Pure function: no I/O, the receiver is not
// modified.
func (c Cart) AddItem(productID string, qty int, stockAvailable int) (Cart, error) {
	if stockAvailable <= 0 {
		return c, ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}

	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)

	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, CartItem{ProductID: productID, Quantity: qty})
	}

	c.Items = items
	return c, nil
}

// RemoveItem drops the line for productID, if present. The second return
// reports whether the cart is now empty, so the caller can delete the backing
// record.
func (c Cart) RemoveItem(productID string) (Cart, bool) {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	c.Items = items
	return c, len(items) == 0
}

// SetItemQuantity replaces the quantity of an existing line. A quantity below
// 1 removes the line. Setting a quantity for an absent product is a no-op.
// The second return reports whether the cart is now empty.
func (c Cart) SetItemQuantity(productID string, qty int) (Cart, bool) {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID == productID {
			if qty < 1 {
				continue
			}
			it.Quantity = qty
		}
		items = append(items, it)
	}
	c.Items = items
	return c, len(items) == 0
}

// TotalValue sums quantity x unit price over all lines. priceOf resolves a
// product id to its current price; a failed lookup aborts the total with
// PriceUnavailableError.
func (c Cart) TotalValue(priceOf func(productID string) (float64, bool)) (float64, error) {
	var total float64
	for _, it := range c.Items {
		price, ok := priceOf(it.ProductID)
		if !ok {
			return 0, &PriceUnavailableError{ProductID: it.ProductID}
		}
		total += price * float64(it.Quantity)
	}
	return total, nil
}
