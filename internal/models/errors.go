package models

import "errors"

// Domain errors raised by the account store and the transfer engine. The HTTP
// layer maps each one to a user-facing message and status code; the core never
// formats transport messages itself. None of these are transient, so nothing
// here is ever retried internally.
var (
	// ErrValidation covers malformed or missing required fields, including
	// negative initial balances and amounts with more than two decimal places.
	ErrValidation = errors.New("validation failed")

	// ErrLimitExceeded means the transfer amount is above the configured cap.
	ErrLimitExceeded = errors.New("transfer amount above limit")

	// ErrSourceNotFound means the source account is missing or not owned by
	// the requesting user.
	ErrSourceNotFound = errors.New("source account not found")

	// ErrInsufficientFunds means the source balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDestinationNotFound means no account matches the destination
	// number/agency pair.
	ErrDestinationNotFound = errors.New("destination account not found")

	// ErrSelfTransfer means source and resolved destination are the same account.
	ErrSelfTransfer = errors.New("transfer to same account")

	// ErrDuplicateAccount means the owner already holds an account with the
	// same number and agency.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrNotFound is the generic entity lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is raised on failed login or registration conflicts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
