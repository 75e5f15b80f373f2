package services

import (
	"context"
	"log/slog"

	"github.com/valutatrade/valutatrade_hub/internal/middleware"

	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
)

// slogAuditRecorder writes audit entries through the request-scoped slog
// logger. It never fails and never alters the outcome of the recorded
// operation.
type slogAuditRecorder struct{}

// NewSlogAuditRecorder returns the default AuditRecorder backed by slog.
func NewSlogAuditRecorder() portssvc.AuditRecorder {
	return &slogAuditRecorder{}
}

func (r *slogAuditRecorder) Record(ctx context.Context, entry portssvc.AuditEntry) {
	logger := middleware.GetLoggerFromCtx(ctx)
	attrs := []any{
		slog.String("action", entry.Action),
		slog.String("user_id", entry.UserID),
		slog.String("currency", entry.CurrencyCode),
		slog.String("amount", entry.Amount.String()),
		slog.String("rate", entry.Rate.String()),
		slog.String("base", entry.BaseCurrency),
		slog.String("outcome", entry.Outcome),
	}
	if entry.Outcome == portssvc.AuditError {
		attrs = append(attrs, slog.String("error_detail", entry.Detail))
		logger.Error("audit", attrs...)
		return
	}
	logger.Info("audit", attrs...)
}

// recordOutcome fills in the outcome fields from err and writes the entry.
// The caller's error is returned unchanged so recording can wrap an
// operation without swallowing anything.
func recordOutcome(ctx context.Context, recorder portssvc.AuditRecorder, entry portssvc.AuditEntry, err error) error {
	if recorder == nil {
		return err
	}
	if err != nil {
		entry.Outcome = portssvc.AuditError
		entry.Detail = err.Error()
	} else {
		entry.Outcome = portssvc.AuditOK
	}
	recorder.Record(ctx, entry)
	return err
}
