package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
)

// DefaultLookaheadDays is how far ahead the scanners look for due items.
const DefaultLookaheadDays = 3

// dueNotificationService is read-only: it selects what is due and tells the notifier.
type dueNotificationService struct {
	BaseService
	invoiceRepo      portsrepo.InvoiceReader
	subscriptionRepo portsrepo.SubscriptionReader
	notifier         providers.Notifier
	lookaheadDays    int
}

// NewDueNotificationService creates the due-notification scanners. A non-positive
// lookaheadDays falls back to DefaultLookaheadDays.
func NewDueNotificationService(
	invoiceRepo portsrepo.InvoiceReader,
	subscriptionRepo portsrepo.SubscriptionReader,
	notifier providers.Notifier,
	lookaheadDays int,
	options ...ServiceOption,
) portssvc.DueNotificationSvc {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	svc := &dueNotificationService{
		invoiceRepo:      invoiceRepo,
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
		lookaheadDays:    lookaheadDays,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.DueNotificationSvc = (*dueNotificationService)(nil)

func (s *dueNotificationService) window(today time.Time) (time.Time, time.Time) {
	from := dateOnly(today)
	return from, from.AddDate(0, 0, s.lookaheadDays)
}

// NotifyInvoicesDue notifies every open invoice due within [today, today+lookahead].
// A failed delivery is logged and does not stop the scan.
func (s *dueNotificationService) NotifyInvoicesDue(ctx context.Context, today time.Time) (int, error) {
	from, to := s.window(today)
	invoices, err := s.invoiceRepo.ListOpenInvoicesDueBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list invoices due: %w", err)
	}

	sent := 0
	for _, inv := range invoices {
		if err := s.notifier.NotifyInvoiceDue(ctx, inv); err != nil {
			s.LogError(ctx, err, "Failed to notify invoice due", slog.String("invoice_id", inv.InvoiceID))
			continue
		}
		sent++
	}
	s.LogInfo(ctx, "Invoice due notifications sent",
		slog.String("from", from.Format(time.DateOnly)), slog.String("to", to.Format(time.DateOnly)),
		slog.Int("found", len(invoices)), slog.Int("sent", sent))
	return sent, nil
}

// NotifySubscriptionsDue notifies every active subscription billing within [today, today+lookahead].
func (s *dueNotificationService) NotifySubscriptionsDue(ctx context.Context, today time.Time) (int, error) {
	from, to := s.window(today)
	subs, err := s.subscriptionRepo.ListActiveSubscriptionsBillingBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions due: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := s.notifier.NotifySubscriptionDue(ctx, sub); err != nil {
			s.LogError(ctx, err, "Failed to notify subscription due", slog.String("subscription_id", sub.SubscriptionID))
			continue
		}
		sent++
	}
	s.LogInfo(ctx, "Subscription due notifications sent",
		slog.String("from", from.Format(time.DateOnly)), slog.String("to", to.Format(time.DateOnly)),
		slog.Int("found", len(subs)), slog.Int("sent", sent))
	return sent, nil
}
