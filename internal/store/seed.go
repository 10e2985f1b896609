package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/econtador/bank-backend/internal/models"
)

// Seed loads the demo dataset: one user with two accounts and a transfer made
// a day ago between them. hash turns the demo plaintext credentials into the
// stored opaque form; the store itself does not know the hashing scheme.
func (s *Store) Seed(hash func(plain string) (string, error)) error {
	userPwd, err := hash("123456")
	if err != nil {
		return err
	}
	firstPwd, err := hash("1234")
	if err != nil {
		return err
	}
	secondPwd, err := hash("5678")
	if err != nil {
		return err
	}

	user, err := s.CreateUser("João Silva", "joao@email.com", userPwd)
	if err != nil {
		return err
	}

	first, err := s.CreateAccount(user.ID, "12345-6", "0001", "bradesco", firstPwd, decimal.NewFromInt(5000))
	if err != nil {
		return err
	}
	second, err := s.CreateAccount(user.ID, "78901-2", "0001", "itau", secondPwd, decimal.NewFromInt(3000))
	if err != nil {
		return err
	}

	s.AppendTransfer(models.Transfer{
		FromAccountID: first.ID,
		ToAccountID:   second.ID,
		Amount:        decimal.NewFromInt(500),
		Description:   "Transferência inicial",
		CreatedAt:     time.Now().Add(-24 * time.Hour),
	})
	return nil
}
