package services

import (
	"encoding/json"
	"net/http"

	"github.com/econtador/bank-backend/internal/models"
)

// brazilianBanks is the static reference table of supported banks. The ledger
// does not own this data; it only resolves display names from it.
var brazilianBanks = []models.Bank{
	{ID: "bradesco", Name: "Bradesco"},
	{ID: "itau", Name: "Itaú"},
	{ID: "nubank", Name: "Nubank"},
	{ID: "inter", Name: "Inter"},
	{ID: "banco_do_brasil", Name: "Banco do Brasil"},
}

type BankService struct{}

func NewBankService() *BankService {
	return &BankService{}
}

// Banks returns a copy of the reference table.
func (bs *BankService) Banks() []models.Bank {
	banks := make([]models.Bank, len(brazilianBanks))
	copy(banks, brazilianBanks)
	return banks
}

// BankName resolves a bank code to its display name, falling back to the raw
// code when it is not in the reference table.
func (bs *BankService) BankName(id string) string {
	for _, b := range brazilianBanks {
		if b.ID == id {
			return b.Name
		}
	}
	return id
}

// GetAllBanks lists the available banks. No authentication required.
func (bs *BankService) GetAllBanks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	json.NewEncoder(w).Encode(bs.Banks())
}
