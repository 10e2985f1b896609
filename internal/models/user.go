package models

import "time"

// User is the owner identity accounts are scoped to. The ledger core only
// ever sees its opaque ID; authentication lives in the auth service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
