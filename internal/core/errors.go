package core

import (
	"errors"
	"strings"
)

// Error kinds surfaced by the ledger. Callers classify with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("record not found")
	ErrNoPrincipalAccount = errors.New("no principal account defined")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStorage            = errors.New("storage error")
)

// ErrAlreadyPaid and ErrNotPaid are state errors reported for pay/revert.
// Both match ErrNotFound.
var (
	ErrAlreadyPaid error = stateError("already paid")
	ErrNotPaid     error = stateError("not paid")
)

var ErrInvalidAmount = &ValidationError{Fields: []string{"amount"}}

type stateError string

func (e stateError) Error() string { return "record " + string(e) }
func (e stateError) Unwrap() error { return ErrNotFound }

// ValidationError names the input fields that were missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": invalid " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Kind returns a stable label for err, used in logs, metrics and API bodies.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoPrincipalAccount):
		return "no_principal_account"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

// UserMessage turns err into the message shown to the user. Every kind gets
// its own wording so a rejected payment can be explained.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		if len(verr.Fields) == 0 {
			return "Dados inválidos"
		}
		return "Dados inválidos: " + strings.Join(verr.Fields, ", ")
	case errors.Is(err, ErrValidation):
		return "Dados inválidos"
	case errors.Is(err, ErrAlreadyPaid):
		return "Registro já está pago"
	case errors.Is(err, ErrNotPaid):
		return "Registro não está pago"
	case errors.Is(err, ErrNotFound):
		return "Registro não encontrado"
	case errors.Is(err, ErrNoPrincipalAccount):
		return "Nenhuma conta principal definida"
	case errors.Is(err, ErrInsufficientFunds):
		return "Saldo insuficiente na conta principal"
	case errors.Is(err, ErrStorage):
		return "Falha ao acessar os dados armazenados"
	default:
		return "Erro inesperado"
	}
}
