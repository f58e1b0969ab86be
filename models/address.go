package models

// Address is a delivery address. Addresses are immutable once created; a user
// may have any number of them.
type Address struct {
	ID      string `json:"id,omitempty"`
	UserID  string `json:"userId"`
	Label   string `json:"label"`
	Line1   string `json:"line1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}
