package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/econtador/bank-backend/internal/models"
	"github.com/econtador/bank-backend/internal/store"
)

type TransferService struct {
	store     *store.Store
	banks     *BankService
	validator *ValidationHelper
	maxAmount decimal.Decimal
}

// TransferRequest is the payload for creating a transfer. The destination is
// addressed by its public account coordinates, never by internal id.
type TransferRequest struct {
	FromAccountID   string          `json:"fromAccountId" validate:"required"`
	ToAccountNumber string          `json:"toAccountNumber" validate:"required"`
	ToAgency        string          `json:"toAgency" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}

// TransferResult is returned from a successful transfer execution.
type TransferResult struct {
	Transfer    models.Transfer `json:"transfer"`
	FromAccount models.Account  `json:"fromAccount"`
	ToAccount   models.Account  `json:"toAccount"`
	Receipt     models.Receipt  `json:"receipt"`
}

func NewTransferService(st *store.Store, banks *BankService) *TransferService {
	viper.SetDefault("transfer.max_amount", "5000")
	maxAmount, err := decimal.NewFromString(viper.GetString("transfer.max_amount"))
	if err != nil {
		log.Printf("[TRANSFER] Invalid transfer.max_amount, using 5000: %v", err)
		maxAmount = decimal.NewFromInt(5000)
	}
	return &TransferService{
		store:     st,
		banks:     banks,
		validator: NewValidationHelper(),
		maxAmount: maxAmount,
	}
}

// MaxAmount is the per-transfer cap.
func (ts *TransferService) MaxAmount() decimal.Decimal {
	return ts.maxAmount
}

// Execute validates the request and applies the transfer. Validation order is
// deliberate: the cap is the cheapest rule and is checked first, and the
// balance check happens after resolving the source but before resolving the
// destination, so a missing destination cannot change which error a caller
// sees for a given request. On any error both balances are left untouched and
// no transfer record is created.
func (ts *TransferService) Execute(userID string, req TransferRequest) (*TransferResult, error) {
	if !req.Amount.IsPositive() || req.Amount.Exponent() < -2 {
		return nil, models.ErrValidation
	}
	if req.Amount.GreaterThan(ts.maxAmount) {
		return nil, models.ErrLimitExceeded
	}

	var result *TransferResult
	err := ts.store.Atomically(func(tx *store.Tx) error {
		from, err := tx.AccountByID(req.FromAccountID)
		if err != nil || from.UserID != userID {
			return models.ErrSourceNotFound
		}

		if from.Balance.LessThan(req.Amount) {
			return models.ErrInsufficientFunds
		}

		to, err := tx.AccountByNumberAndAgency(req.ToAccountNumber, req.ToAgency)
		if err != nil {
			return models.ErrDestinationNotFound
		}

		if to.ID == from.ID {
			return models.ErrSelfTransfer
		}

		// Both accounts are pinned by the store lock from here on, so the
		// debit+credit pair is indivisible and cannot race a delete.
		from, err = tx.ApplyBalanceDelta(from.ID, req.Amount.Neg())
		if err != nil {
			return err
		}
		to, err = tx.ApplyBalanceDelta(to.ID, req.Amount)
		if err != nil {
			// Put the debited leg back before surfacing the error.
			tx.ApplyBalanceDelta(from.ID, req.Amount)
			return err
		}

		description := req.Description
		if description == "" {
			description = models.DefaultTransferDescription
		}
		transfer := tx.AppendTransfer(models.Transfer{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        req.Amount,
			Description:   description,
		})

		result = &TransferResult{
			Transfer:    transfer,
			FromAccount: from,
			ToAccount:   to,
			Receipt:     ts.buildReceipt(transfer, from, to),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UserTransfers returns every transfer touching an account owned by the user.
func (ts *TransferService) UserTransfers(userID string) []models.Transfer {
	return ts.store.TransfersByOwner(userID)
}

func (ts *TransferService) buildReceipt(transfer models.Transfer, from, to models.Account) models.Receipt {
	return models.Receipt{
		ID:          transfer.ID,
		FromAccount: fmt.Sprintf("%s - %s", from.AccountNumber, from.Agency),
		ToAccount:   fmt.Sprintf("%s - %s", to.AccountNumber, to.Agency),
		FromBank:    ts.banks.BankName(from.Bank),
		ToBank:      ts.banks.BankName(to.Bank),
		Amount:      transfer.Amount,
		Date:        transfer.CreatedAt,
		Description: transfer.Description,
	}
}

// CreateTransfer handles POST /api/transfers.
func (ts *TransferService) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req TransferRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Dados inválidos", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := ts.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Dados inválidos", http.StatusBadRequest, err)
		return
	}

	result, err := ts.Execute(userID, req)
	if err != nil {
		log.Printf("[TRANSFER] Transfer rejected for user %s: %v", userID, err)
		SendDomainError(w, err)
		return
	}

	log.Printf("[TRANSFER] Transfer %s created: %s -> %s amount %s",
		result.Transfer.ID, result.Transfer.FromAccountID, result.Transfer.ToAccountID, result.Transfer.Amount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// GetTransfers handles GET /api/transfers.
func (ts *TransferService) GetTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	transfers := ts.UserTransfers(userID)
	if transfers == nil {
		transfers = []models.Transfer{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transfers)
}
