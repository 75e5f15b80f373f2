package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates a concurrent modification was detected on write.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrInvalidAmount indicates a trade or transfer amount that is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrCurrencyNotFound indicates an unknown or non-tradable currency code.
var ErrCurrencyNotFound = errors.New("currency not found")

// ErrInvalidOperation indicates a disallowed action, such as trading the
// settlement currency directly.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrRateUnavailable indicates that no fresh or fetchable rate exists for a
// currency pair. The caller may retry later; the core does not retry beyond
// its single refresh attempt.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrInsufficientFunds indicates a withdrawal exceeding the wallet balance.
// Callers needing diagnostics should unwrap to *InsufficientFundsError.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrPersistence indicates that the underlying storage read/write failed.
var ErrPersistence = errors.New("persistence failure")

// InsufficientFundsError carries the balance diagnostics for a rejected
// withdrawal. It matches errors.Is(err, ErrInsufficientFunds).
type InsufficientFundsError struct {
	Available    decimal.Decimal
	Requested    decimal.Decimal
	CurrencyCode string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %s %s, need %s",
		e.Available.String(), e.CurrencyCode, e.Requested.String())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
