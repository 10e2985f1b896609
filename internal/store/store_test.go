package store

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econtador/bank-backend/internal/models"
)

func TestStore_CreateAccount(t *testing.T) {
	s := New()

	t.Run("creates account with initial balance", func(t *testing.T) {
		acc, err := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.NotEmpty(t, acc.ID)
		assert.Equal(t, "user1", acc.UserID)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects negative initial balance", func(t *testing.T) {
		_, err := s.CreateAccount("user1", "99999-9", "0001", "itau", "hash", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestStore_Lookups(t *testing.T) {
	s := New()
	a1, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.Zero)
	a2, _ := s.CreateAccount("user1", "78901-2", "0001", "itau", "hash", decimal.Zero)
	s.CreateAccount("user2", "55555-5", "0002", "nubank", "hash", decimal.Zero)

	t.Run("by owner in creation order", func(t *testing.T) {
		accs := s.AccountsByOwner("user1")
		require.Len(t, accs, 2)
		assert.Equal(t, a1.ID, accs[0].ID)
		assert.Equal(t, a2.ID, accs[1].ID)
	})

	t.Run("by id", func(t *testing.T) {
		acc, err := s.AccountByID(a1.ID)
		require.NoError(t, err)
		assert.Equal(t, "12345-6", acc.AccountNumber)

		_, err = s.AccountByID("missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("by number and agency", func(t *testing.T) {
		acc, err := s.AccountByNumberAndAgency("78901-2", "0001")
		require.NoError(t, err)
		assert.Equal(t, a2.ID, acc.ID)

		_, err = s.AccountByNumberAndAgency("78901-2", "9999")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("no accounts yields empty slice", func(t *testing.T) {
		assert.Empty(t, s.AccountsByOwner("nobody"))
	})
}

func TestStore_ApplyBalanceDelta(t *testing.T) {
	s := New()
	acc, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))

	t.Run("adds positive and negative deltas", func(t *testing.T) {
		after, err := s.ApplyBalanceDelta(acc.ID, decimal.NewFromFloat(50.25))
		require.NoError(t, err)
		assert.True(t, after.Balance.Equal(decimal.NewFromFloat(150.25)))

		after, err = s.ApplyBalanceDelta(acc.ID, decimal.NewFromFloat(-150.25))
		require.NoError(t, err)
		assert.True(t, after.Balance.IsZero())
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := s.ApplyBalanceDelta("missing", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("no lost updates under concurrency", func(t *testing.T) {
		target, _ := s.CreateAccount("user1", "77777-7", "0001", "inter", "hash", decimal.Zero)

		const workers = 50
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				s.ApplyBalanceDelta(target.ID, decimal.NewFromInt(1))
			}()
		}
		wg.Wait()

		got, err := s.AccountByID(target.ID)
		require.NoError(t, err)
		assert.True(t, got.Balance.Equal(decimal.NewFromInt(workers)),
			"expected %d, got %s", workers, got.Balance)
	})
}

func TestStore_UpdateAccount(t *testing.T) {
	s := New()
	acc, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		number := "11111-1"
		updated, err := s.UpdateAccount(acc.ID, models.AccountUpdate{AccountNumber: &number})
		require.NoError(t, err)
		assert.Equal(t, "11111-1", updated.AccountNumber)
		assert.Equal(t, "0001", updated.Agency)
		assert.Equal(t, "bradesco", updated.Bank)
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := s.UpdateAccount("missing", models.AccountUpdate{})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStore_DeleteAccount(t *testing.T) {
	s := New()
	acc, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.Zero)

	deleted, err := s.DeleteAccount(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, deleted.ID)

	_, err = s.AccountByID(acc.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.DeleteAccount(acc.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_Atomically(t *testing.T) {
	s := New()
	a1, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))
	a2, _ := s.CreateAccount("user1", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(50))

	t.Run("two-leg mutation is applied as a unit", func(t *testing.T) {
		err := s.Atomically(func(tx *Tx) error {
			if _, err := tx.ApplyBalanceDelta(a1.ID, decimal.NewFromInt(-30)); err != nil {
				return err
			}
			if _, err := tx.ApplyBalanceDelta(a2.ID, decimal.NewFromInt(30)); err != nil {
				return err
			}
			tx.AppendTransfer(models.Transfer{
				FromAccountID: a1.ID,
				ToAccountID:   a2.ID,
				Amount:        decimal.NewFromInt(30),
				Description:   "teste",
			})
			return nil
		})
		require.NoError(t, err)

		from, _ := s.AccountByID(a1.ID)
		to, _ := s.AccountByID(a2.ID)
		assert.True(t, from.Balance.Equal(decimal.NewFromInt(70)))
		assert.True(t, to.Balance.Equal(decimal.NewFromInt(80)))

		transfers := s.TransfersByOwner("user1")
		require.Len(t, transfers, 1)
		assert.NotEmpty(t, transfers[0].ID)
		assert.False(t, transfers[0].CreatedAt.IsZero())
	})

	t.Run("lookups inside the transaction see locked state", func(t *testing.T) {
		err := s.Atomically(func(tx *Tx) error {
			acc, err := tx.AccountByNumberAndAgency("12345-6", "0001")
			if err != nil {
				return err
			}
			assert.Equal(t, a1.ID, acc.ID)
			_, err = tx.AccountByID(a2.ID)
			return err
		})
		assert.NoError(t, err)
	})
}

func TestStore_TransfersByOwner(t *testing.T) {
	s := New()
	mine, _ := s.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.Zero)
	other, _ := s.CreateAccount("user2", "78901-2", "0001", "itau", "hash", decimal.Zero)

	s.AppendTransfer(models.Transfer{FromAccountID: mine.ID, ToAccountID: other.ID, Amount: decimal.NewFromInt(10)})
	s.AppendTransfer(models.Transfer{FromAccountID: other.ID, ToAccountID: mine.ID, Amount: decimal.NewFromInt(20)})
	s.AppendTransfer(models.Transfer{FromAccountID: other.ID, ToAccountID: other.ID, Amount: decimal.NewFromInt(30)})

	mineTransfers := s.TransfersByOwner("user1")
	require.Len(t, mineTransfers, 2)
	assert.True(t, mineTransfers[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, mineTransfers[1].Amount.Equal(decimal.NewFromInt(20)))

	assert.Empty(t, s.TransfersByOwner("nobody"))
}

func TestStore_Users(t *testing.T) {
	s := New()

	u, err := s.CreateUser("João Silva", "Joao@Email.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "joao@email.com", u.Email)

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := s.CreateUser("Outro", "joao@email.com", "hash")
		assert.ErrorIs(t, err, models.ErrDuplicateAccount)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		found, err := s.UserByEmail("JOAO@EMAIL.COM")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
	})

	t.Run("by id", func(t *testing.T) {
		found, err := s.UserByID(u.ID)
		require.NoError(t, err)
		assert.Equal(t, "João Silva", found.Name)

		_, err = s.UserByID("missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStore_Seed(t *testing.T) {
	s := New()
	err := s.Seed(func(plain string) (string, error) { return "hashed:" + plain, nil })
	require.NoError(t, err)

	user, err := s.UserByEmail("joao@email.com")
	require.NoError(t, err)

	accounts := s.AccountsByOwner(user.ID)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, accounts[1].Balance.Equal(decimal.NewFromInt(3000)))

	transfers := s.TransfersByOwner(user.ID)
	require.Len(t, transfers, 1)
	assert.True(t, transfers[0].Amount.Equal(decimal.NewFromInt(500)))
}
