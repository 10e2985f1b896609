package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econtador/bank-backend/internal/models"
	"github.com/econtador/bank-backend/internal/store"
)

func TestDashboardService_UserSummary(t *testing.T) {
	t.Run("income from a transfer ten days ago", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)
		mine, _ := st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(1000))
		other, _ := st.CreateAccount("user2", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(500))

		st.AppendTransfer(models.Transfer{
			FromAccountID: other.ID,
			ToAccountID:   mine.ID,
			Amount:        decimal.NewFromInt(200),
			CreatedAt:     time.Now().AddDate(0, 0, -10),
		})

		summary := ds.UserSummary("user1")
		assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, summary.Income.Equal(decimal.NewFromInt(200)))
		assert.True(t, summary.Expenses.IsZero())
		assert.Equal(t, 1, summary.AccountsCount)
		assert.Equal(t, 1, summary.TransfersCount)
	})

	t.Run("transfer between own accounts counts as both", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)
		a1, _ := st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))
		a2, _ := st.CreateAccount("user1", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(100))

		st.AppendTransfer(models.Transfer{
			FromAccountID: a1.ID,
			ToAccountID:   a2.ID,
			Amount:        decimal.NewFromInt(50),
			CreatedAt:     time.Now().AddDate(0, 0, -1),
		})

		summary := ds.UserSummary("user1")
		assert.True(t, summary.Income.Equal(decimal.NewFromInt(50)))
		assert.True(t, summary.Expenses.Equal(decimal.NewFromInt(50)))
	})

	t.Run("transfers older than thirty days are excluded from totals", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)
		mine, _ := st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))
		other, _ := st.CreateAccount("user2", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(100))

		st.AppendTransfer(models.Transfer{
			FromAccountID: other.ID,
			ToAccountID:   mine.ID,
			Amount:        decimal.NewFromInt(75),
			CreatedAt:     time.Now().AddDate(0, 0, -45),
		})

		summary := ds.UserSummary("user1")
		assert.True(t, summary.Income.IsZero())
		assert.Equal(t, 1, summary.TransfersCount)
	})

	t.Run("six monthly buckets oldest first", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)
		mine, _ := st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(100))
		other, _ := st.CreateAccount("user2", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(100))

		now := time.Now()
		// One incoming transfer this month, one outgoing three months back.
		st.AppendTransfer(models.Transfer{
			FromAccountID: other.ID,
			ToAccountID:   mine.ID,
			Amount:        decimal.NewFromInt(30),
			CreatedAt:     time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location()),
		})
		threeBack := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location()).AddDate(0, -3, 0)
		st.AppendTransfer(models.Transfer{
			FromAccountID: mine.ID,
			ToAccountID:   other.ID,
			Amount:        decimal.NewFromInt(40),
			CreatedAt:     threeBack,
		})

		summary := ds.UserSummary("user1")
		require.Len(t, summary.ChartData, 6)

		current := summary.ChartData[5]
		assert.Equal(t, fmt.Sprintf("%s %d", shortMonthsPtBR[now.Month()-1], now.Year()), current.Month)
		assert.True(t, current.Income.Equal(decimal.NewFromInt(30)))

		past := summary.ChartData[2]
		assert.Equal(t, fmt.Sprintf("%s %d", shortMonthsPtBR[threeBack.Month()-1], threeBack.Year()), past.Month)
		assert.True(t, past.Expenses.Equal(decimal.NewFromInt(40)))

		for _, bucket := range []MonthBucket{summary.ChartData[0], summary.ChartData[1], summary.ChartData[3], summary.ChartData[4]} {
			assert.True(t, bucket.Income.IsZero())
			assert.True(t, bucket.Expenses.IsZero())
		}
	})

	t.Run("no accounts yields zeros not an error", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)

		summary := ds.UserSummary("nobody")
		assert.True(t, summary.TotalBalance.IsZero())
		assert.True(t, summary.Income.IsZero())
		assert.True(t, summary.Expenses.IsZero())
		assert.Equal(t, 0, summary.AccountsCount)
		assert.Equal(t, 0, summary.TransfersCount)
		assert.Len(t, summary.ChartData, 6)
	})

	t.Run("repeated reads return identical results", func(t *testing.T) {
		st := store.New()
		ds := NewDashboardService(st)
		mine, _ := st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(300))
		other, _ := st.CreateAccount("user2", "78901-2", "0001", "itau", "hash", decimal.NewFromInt(100))
		st.AppendTransfer(models.Transfer{
			FromAccountID: other.ID,
			ToAccountID:   mine.ID,
			Amount:        decimal.NewFromInt(20),
			CreatedAt:     time.Now().AddDate(0, 0, -5),
		})

		first := ds.UserSummary("user1")
		second := ds.UserSummary("user1")
		assert.Equal(t, first, second)
	})
}

func TestDashboardService_GetDashboardHandler(t *testing.T) {
	st := store.New()
	ds := NewDashboardService(st)
	st.CreateAccount("user1", "12345-6", "0001", "bradesco", "hash", decimal.NewFromInt(750))

	t.Run("returns summary for authenticated user", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/dashboard", nil)
		r = r.WithContext(context.WithValue(r.Context(), "userID", "user1"))
		w := httptest.NewRecorder()

		ds.GetDashboard(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var summary Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(750)))
		assert.Equal(t, 1, summary.AccountsCount)
	})

	t.Run("no user in context returns 401", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/dashboard", nil)
		w := httptest.NewRecorder()

		ds.GetDashboard(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
