package models

// Product is a catalog entry. Stock is only ever mutated by the checkout
// reservation step and by admin edits; products are never deleted by checkout.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
