package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/econtador/bank-backend/internal/store"
)

type DashboardService struct {
	store *store.Store
}

// Summary aggregates a user's ledger state for the dashboard. Read-only; two
// calls with no intervening mutation return identical results.
type Summary struct {
	TotalBalance   decimal.Decimal `json:"totalBalance"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	AccountsCount  int             `json:"accountsCount"`
	TransfersCount int             `json:"transfersCount"`
	ChartData      []MonthBucket   `json:"chartData"`
}

// MonthBucket holds one calendar month of income/expense totals.
type MonthBucket struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

var shortMonthsPtBR = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

func NewDashboardService(st *store.Store) *DashboardService {
	return &DashboardService{store: st}
}

// UserSummary computes the dashboard aggregate. A transfer counts as income
// when its destination belongs to the user and as an expense when its source
// does; a transfer between two of the user's own accounts counts as both.
// Zero accounts or transfers yield zeros, not an error.
func (ds *DashboardService) UserSummary(userID string) Summary {
	accounts := ds.store.AccountsByOwner(userID)
	transfers := ds.store.TransfersByOwner(userID)

	owned := make(map[string]bool, len(accounts))
	totalBalance := decimal.Zero
	for _, acc := range accounts {
		owned[acc.ID] = true
		totalBalance = totalBalance.Add(acc.Balance)
	}

	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transfers {
		if t.CreatedAt.Before(thirtyDaysAgo) {
			continue
		}
		if owned[t.ToAccountID] {
			income = income.Add(t.Amount)
		}
		if owned[t.FromAccountID] {
			expenses = expenses.Add(t.Amount)
		}
	}

	chart := make([]MonthBucket, 0, 6)
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		monthStart := currentMonth.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		bucket := MonthBucket{
			Month:    fmt.Sprintf("%s %d", shortMonthsPtBR[monthStart.Month()-1], monthStart.Year()),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		for _, t := range transfers {
			if t.CreatedAt.Before(monthStart) || !t.CreatedAt.Before(monthEnd) {
				continue
			}
			if owned[t.ToAccountID] {
				bucket.Income = bucket.Income.Add(t.Amount)
			}
			if owned[t.FromAccountID] {
				bucket.Expenses = bucket.Expenses.Add(t.Amount)
			}
		}
		chart = append(chart, bucket)
	}

	return Summary{
		TotalBalance:   totalBalance,
		Income:         income,
		Expenses:       expenses,
		AccountsCount:  len(accounts),
		TransfersCount: len(transfers),
		ChartData:      chart,
	}
}

// GetDashboard handles GET /api/dashboard.
func (ds *DashboardService) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ds.UserSummary(userID))
}
