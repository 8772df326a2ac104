package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	"github.com/SscSPs/finance_ledger/internal/middleware"
)

// LogNotifier writes reminders to the structured log. It is the fallback channel
// when Redis is not configured.
type LogNotifier struct{}

var _ providers.Notifier = LogNotifier{}

func (LogNotifier) NotifyInvoiceDue(ctx context.Context, invoice domain.Invoice) error {
	p := NewInvoiceDue(invoice)
	middleware.GetLoggerFromCtx(ctx).Info("Invoice due",
		slog.String("event", EventInvoiceDue),
		slog.String("invoice_id", p.InvoiceID),
		slog.String("card_id", p.CardID),
		slog.String("month_reference", p.MonthReference),
		slog.String("amount", p.Amount),
		slog.String("currency", p.CurrencyCode),
		slog.String("due_date", p.DueDate))
	return nil
}

func (LogNotifier) NotifySubscriptionDue(ctx context.Context, sub domain.Subscription) error {
	p := NewSubscriptionDue(sub)
	middleware.GetLoggerFromCtx(ctx).Info("Subscription due",
		slog.String("event", EventSubscriptionDue),
		slog.String("subscription_id", p.SubscriptionID),
		slog.String("user_id", p.UserID),
		slog.String("name", p.Name),
		slog.String("amount", p.Amount),
		slog.String("next_billing_date", p.NextBillingDate))
	return nil
}

// Multi fans a reminder out to every channel. All channels are tried; the joined
// error reports the ones that failed.
type Multi []providers.Notifier

var _ providers.Notifier = Multi(nil)

func (m Multi) NotifyInvoiceDue(ctx context.Context, invoice domain.Invoice) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyInvoiceDue(ctx, invoice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifySubscriptionDue(ctx context.Context, sub domain.Subscription) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifySubscriptionDue(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
