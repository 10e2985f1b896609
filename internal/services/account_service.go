package services

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/econtador/bank-backend/internal/models"
	"github.com/econtador/bank-backend/internal/store"
)

type AccountService struct {
	store     *store.Store
	validator *ValidationHelper
}

// CreateAccountRequest is the payload for opening an account.
type CreateAccountRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required"`
	Agency        string          `json:"agency" validate:"required"`
	Bank          string          `json:"bank" validate:"required"`
	Password      string          `json:"password" validate:"required,min=4"`
	Balance       decimal.Decimal `json:"balance"`
}

// UpdateAccountRequest carries the optional fields of an account update.
type UpdateAccountRequest struct {
	AccountNumber *string `json:"accountNumber"`
	Agency        *string `json:"agency"`
	Bank          *string `json:"bank"`
	Password      *string `json:"password"`
}

func NewAccountService(st *store.Store) *AccountService {
	return &AccountService{
		store:     st,
		validator: NewValidationHelper(),
	}
}

// UserAccounts returns the caller's accounts in creation order.
func (as *AccountService) UserAccounts(userID string) []models.Account {
	return as.store.AccountsByOwner(userID)
}

// Create opens an account for the user. An owner may not claim the same
// number/agency pair twice; a different owner holding those coordinates at
// another bank is fine.
func (as *AccountService) Create(userID string, req CreateAccountRequest) (models.Account, error) {
	if req.Balance.IsNegative() || req.Balance.Exponent() < -2 {
		return models.Account{}, models.ErrValidation
	}

	if existing, err := as.store.AccountByNumberAndAgency(req.AccountNumber, req.Agency); err == nil && existing.UserID == userID {
		return models.Account{}, models.ErrDuplicateAccount
	}

	credentialHash, err := HashPassword(req.Password)
	if err != nil {
		return models.Account{}, err
	}

	return as.store.CreateAccount(userID, req.AccountNumber, req.Agency, req.Bank, credentialHash, req.Balance)
}

// Update applies a partial, ownership-checked account update.
func (as *AccountService) Update(userID, accountID string, req UpdateAccountRequest) (models.Account, error) {
	account, err := as.store.AccountByID(accountID)
	if err != nil || account.UserID != userID {
		return models.Account{}, models.ErrNotFound
	}

	upd := models.AccountUpdate{
		AccountNumber: req.AccountNumber,
		Agency:        req.Agency,
		Bank:          req.Bank,
	}
	if req.Password != nil {
		credentialHash, err := HashPassword(*req.Password)
		if err != nil {
			return models.Account{}, err
		}
		upd.CredentialHash = &credentialHash
	}

	return as.store.UpdateAccount(accountID, upd)
}

// Delete removes an ownership-checked account. The store takes the same lock
// as balance mutation, so deletion cannot race an in-flight transfer.
func (as *AccountService) Delete(userID, accountID string) error {
	account, err := as.store.AccountByID(accountID)
	if err != nil || account.UserID != userID {
		return models.ErrNotFound
	}
	_, err = as.store.DeleteAccount(accountID)
	return err
}

// GetAccounts handles GET /api/accounts.
func (as *AccountService) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	accounts := as.UserAccounts(userID)
	if accounts == nil {
		accounts = []models.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// CreateAccount handles POST /api/accounts.
func (as *AccountService) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateAccountRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Dados inválidos", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := as.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Dados inválidos", http.StatusBadRequest, err)
		return
	}

	account, err := as.Create(userID, req)
	if err != nil {
		log.Printf("[ACCOUNT] Account creation rejected for user %s: %v", userID, err)
		SendDomainError(w, err)
		return
	}

	log.Printf("[ACCOUNT] Account %s created for user %s", account.ID, userID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// UpdateAccount handles PUT /api/accounts/{id}.
func (as *AccountService) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}
	accountID := chi.URLParam(r, "id")

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendErrorResponse(w, "Dados inválidos", http.StatusBadRequest, nil)
		return
	}

	account, err := as.Update(userID, accountID, req)
	if err != nil {
		log.Printf("[ACCOUNT] Account update rejected for user %s: %v", userID, err)
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// DeleteAccount handles DELETE /api/accounts/{id}.
func (as *AccountService) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}
	accountID := chi.URLParam(r, "id")

	if err := as.Delete(userID, accountID); err != nil {
		log.Printf("[ACCOUNT] Account deletion rejected for user %s: %v", userID, err)
		SendDomainError(w, err)
		return
	}

	log.Printf("[ACCOUNT] Account %s deleted by user %s", accountID, userID)
	w.WriteHeader(http.StatusNoContent)
}
