package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// Audit outcomes.
const (
	AuditOK    = "OK"
	AuditError = "ERROR"
)

// AuditEntry is one record of a core operation, captured on success and on
// failure alike.
type AuditEntry struct {
	Action       string
	UserID       string
	CurrencyCode string
	Amount       decimal.Decimal
	Rate         decimal.Decimal
	BaseCurrency string
	Outcome      string
	Detail       string // error detail, empty on success
}

// AuditRecorder records core operations. Recording never affects the
// operation's success or failure; errors are always re-raised to the caller
// after the record is written.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}
