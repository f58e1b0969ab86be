package models

// User is upserted at login. IsAdmin is derived from a trusted-email match
// against the configured admin address and is never mutable through the API.
type User struct {
	ID      string `json:"id,omitempty"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}
