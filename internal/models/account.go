package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account owned by a user. Balance is only ever
// written through the store's balance-delta primitive; CredentialHash never
// leaves the process boundary.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	AccountNumber  string          `json:"accountNumber"`
	Agency         string          `json:"agency"`
	Bank           string          `json:"bank"`
	CredentialHash string          `json:"-"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// AccountUpdate carries the optional fields of a partial account update.
// Nil pointers leave the stored value untouched.
type AccountUpdate struct {
	AccountNumber  *string
	Agency         *string
	Bank           *string
	CredentialHash *string
}

// Bank is a reference-data entry mapping a bank code to its display name.
type Bank struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
