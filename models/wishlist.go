package models

// Wishlist is a per-user set of product ids. Created on first add, never
// auto-deleted.
type Wishlist struct {
	ID         string   `json:"id,omitempty"`
	UserID     string   `json:"userId"`
	ProductIDs []string `json:"productIds"`
}

// Add inserts a product id into the set. Adding an id that is already present
// is a no-op. A product with zero available stock cannot be added.
func (w Wishlist) Add(productID string, stockAvailable int) (Wishlist, error) {
	if stockAvailable <= 0 {
		return w, ErrOutOfStock
	}
	for _, id := range w.ProductIDs {
		if id == productID {
			return w, nil
		}
	}
	ids := make([]string, len(w.ProductIDs), len(w.ProductIDs)+1)
	copy(ids, w.ProductIDs)
	w.ProductIDs = append(ids, productID)
	return w, nil
}

// Remove drops a product id from the set. Removing an absent id is a no-op,
// never an error.
func (w Wishlist) Remove(productID string) Wishlist {
	ids := make([]string, 0, len(w.ProductIDs))
	for _, id := range w.ProductIDs {
		if id != productID {
			ids = append(ids, id)
		}
	}
	w.ProductIDs = ids
	return w
}

// Contains reports set membership.
func (w Wishlist) Contains(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
