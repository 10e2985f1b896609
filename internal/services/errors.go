package services

import (
	"errors"
	"net/http"

	"github.com/econtador/bank-backend/internal/models"
)

// domainStatus maps a domain error kind to the HTTP status and user-facing
// message the API returns. The ledger core itself only speaks in error kinds.
func domainStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrLimitExceeded):
		return http.StatusBadRequest, "Valor máximo para transferência é R$ 5.000,00"
	case errors.Is(err, models.ErrSourceNotFound):
		return http.StatusBadRequest, "Conta de origem não encontrada"
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusBadRequest, "Saldo insuficiente"
	case errors.Is(err, models.ErrDestinationNotFound):
		return http.StatusBadRequest, "Conta de destino não encontrada"
	case errors.Is(err, models.ErrSelfTransfer):
		return http.StatusBadRequest, "Não é possível transferir para a mesma conta"
	case errors.Is(err, models.ErrDuplicateAccount):
		return http.StatusBadRequest, "Você já possui uma conta com estes dados"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusBadRequest, "Conta não encontrada"
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "Dados inválidos"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Credenciais inválidas"
	default:
		return http.StatusInternalServerError, "Erro interno do servidor"
	}
}

// SendDomainError writes the JSON error payload for a domain error.
func SendDomainError(w http.ResponseWriter, err error) {
	status, message := domainStatus(err)
	SendErrorResponse(w, message, status, nil)
}
