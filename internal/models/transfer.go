package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTransferDescription is applied when a transfer request carries no
// description.
const DefaultTransferDescription = "Transferência"

// Transfer is an append-only audit record of a completed two-leg transfer.
// It is never updated or deleted after creation.
type Transfer struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Receipt is a human-oriented projection of a completed transfer with the
// account coordinates and resolved bank names of both legs.
type Receipt struct {
	ID          string          `json:"id"`
	FromAccount string          `json:"fromAccount"`
	ToAccount   string          `json:"toAccount"`
	FromBank    string          `json:"fromBank"`
	ToBank      string          `json:"toBank"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}
