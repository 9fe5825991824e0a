package domain

import "errors"

// Domain errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidMode         = errors.New("invalid store mode")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrCategoryNotFound    = errors.New("category not found")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxNoteLength        = 1000
)
