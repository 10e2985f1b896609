// Package store holds the in-memory account, transfer and user state behind a
// single mutual-exclusion domain. It replaces the usual SQL layer for this
// demo: maps keyed by id, with an explicit lock where a database would give us
// row locking, so concurrent transfers can never interleave a read-modify-write
// of the same balance.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/econtador/bank-backend/internal/models"
)

// Store owns all mutable ledger state. Accounts are handed out as copies;
// balances can only change through ApplyBalanceDelta, either directly or
// inside an Atomically block.
type Store struct {
	mu sync.RWMutex

	accounts     map[string]*models.Account
	accountOrder []string
	transfers    []*models.Transfer
	users        map[string]*models.User
	userOrder    []string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[string]*models.Account),
		users:    make(map[string]*models.User),
	}
}

// Atomically runs fn while holding the store lock. Everything fn does through
// the Tx view is indivisible with respect to any other store operation: this
// is how a transfer's debit+credit pair stays atomic, and how account deletion
// is excluded from racing a transfer on the same account.
func (s *Store) Atomically(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// Tx is a locked view of the store, only valid inside an Atomically block.
type Tx struct {
	s *Store
}

// AccountByID resolves an account inside the transaction.
func (tx *Tx) AccountByID(id string) (models.Account, error) {
	return tx.s.accountByIDLocked(id)
}

// AccountByNumberAndAgency resolves an account by its public coordinates
// inside the transaction.
func (tx *Tx) AccountByNumberAndAgency(number, agency string) (models.Account, error) {
	return tx.s.accountByNumberAndAgencyLocked(number, agency)
}

// ApplyBalanceDelta adds delta to the account balance inside the transaction.
func (tx *Tx) ApplyBalanceDelta(id string, delta decimal.Decimal) (models.Account, error) {
	return tx.s.applyBalanceDeltaLocked(id, delta)
}

// AppendTransfer records a completed transfer inside the transaction. A zero
// CreatedAt is stamped with the current time.
func (tx *Tx) AppendTransfer(t models.Transfer) models.Transfer {
	return tx.s.appendTransferLocked(t)
}

// AccountsByOwner returns the user's accounts in creation order.
func (s *Store) AccountsByOwner(ownerID string) []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Account
	for _, id := range s.accountOrder {
		if acc := s.accounts[id]; acc != nil && acc.UserID == ownerID {
			out = append(out, *acc)
		}
	}
	return out
}

// AccountByID returns a copy of the account or models.ErrNotFound.
func (s *Store) AccountByID(id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountByIDLocked(id)
}

// AccountByNumberAndAgency resolves an account by the coordinates a
// counterparty knows. This is the only lookup path a transfer destination
// needs.
func (s *Store) AccountByNumberAndAgency(number, agency string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountByNumberAndAgencyLocked(number, agency)
}

// CreateAccount opens a new account. The initial balance must not be negative.
func (s *Store) CreateAccount(ownerID, number, agency, bank, credentialHash string, initialBalance decimal.Decimal) (models.Account, error) {
	if initialBalance.IsNegative() {
		return models.Account{}, models.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := &models.Account{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		AccountNumber:  number,
		Agency:         agency,
		Bank:           bank,
		CredentialHash: credentialHash,
		Balance:        initialBalance,
		CreatedAt:      time.Now(),
	}
	s.accounts[acc.ID] = acc
	s.accountOrder = append(s.accountOrder, acc.ID)
	return *acc, nil
}

// ApplyBalanceDelta atomically adds delta (possibly negative) to the stored
// balance and returns the new state. The sole sanctioned balance mutation.
func (s *Store) ApplyBalanceDelta(id string, delta decimal.Decimal) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyBalanceDeltaLocked(id, delta)
}

// UpdateAccount applies the non-nil fields of upd. The store is owner-agnostic;
// ownership is checked by the calling service.
func (s *Store) UpdateAccount(id string, upd models.AccountUpdate) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrNotFound
	}
	if upd.AccountNumber != nil {
		acc.AccountNumber = *upd.AccountNumber
	}
	if upd.Agency != nil {
		acc.Agency = *upd.Agency
	}
	if upd.Bank != nil {
		acc.Bank = *upd.Bank
	}
	if upd.CredentialHash != nil {
		acc.CredentialHash = *upd.CredentialHash
	}
	return *acc, nil
}

// DeleteAccount removes the account, taking the same lock as balance mutation
// so a delete can never interleave with an in-flight transfer on this account.
func (s *Store) DeleteAccount(id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrNotFound
	}
	delete(s.accounts, id)
	for i, aid := range s.accountOrder {
		if aid == id {
			s.accountOrder = append(s.accountOrder[:i], s.accountOrder[i+1:]...)
			break
		}
	}
	return *acc, nil
}

// TransfersByOwner returns every transfer touching any of the user's accounts,
// in creation order.
func (s *Store) TransfersByOwner(ownerID string) []models.Transfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[string]bool)
	for _, acc := range s.accounts {
		if acc.UserID == ownerID {
			owned[acc.ID] = true
		}
	}

	var out []models.Transfer
	for _, t := range s.transfers {
		if owned[t.FromAccountID] || owned[t.ToAccountID] {
			out = append(out, *t)
		}
	}
	return out
}

// AppendTransfer records a transfer outside a transaction. Used by seeding and
// tests; the transfer engine goes through Tx.AppendTransfer instead.
func (s *Store) AppendTransfer(t models.Transfer) models.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTransferLocked(t)
}

// CreateUser registers a user; the email must not be taken.
func (s *Store) CreateUser(name, email, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, id := range s.userOrder {
		if s.users[id].Email == email {
			return models.User{}, models.ErrDuplicateAccount
		}
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return *u, nil
}

// UserByEmail looks a user up by email, case-insensitively.
func (s *Store) UserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, id := range s.userOrder {
		if s.users[id].Email == email {
			return *s.users[id], nil
		}
	}
	return models.User{}, models.ErrNotFound
}

// UserByID returns a copy of the user or models.ErrNotFound.
func (s *Store) UserByID(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return *u, nil
}

func (s *Store) accountByIDLocked(id string) (models.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrNotFound
	}
	return *acc, nil
}

func (s *Store) accountByNumberAndAgencyLocked(number, agency string) (models.Account, error) {
	for _, id := range s.accountOrder {
		acc := s.accounts[id]
		if acc.AccountNumber == number && acc.Agency == agency {
			return *acc, nil
		}
	}
	return models.Account{}, models.ErrNotFound
}

func (s *Store) applyBalanceDeltaLocked(id string, delta decimal.Decimal) (models.Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrNotFound
	}
	acc.Balance = acc.Balance.Add(delta)
	return *acc, nil
}

func (s *Store) appendTransferLocked(t models.Transfer) models.Transfer {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	stored := t
	s.transfers = append(s.transfers, &stored)
	return t
}
