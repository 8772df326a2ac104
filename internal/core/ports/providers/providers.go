// Package providers declares the outbound ports the billing engine consumes
// besides persistence: the remote rate source, the rate cache and the notifier.
package providers

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProvider fetches a conversion rate from an external, unreliable source.
// A nil date asks for the latest rate. Any failure (timeout, non-success status,
// unknown pair) is reported as an error wrapping apperrors.ErrRateUnavailable.
type RateProvider interface {
	FetchRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date *time.Time) (decimal.Decimal, error)
}

// RateCache is the short-lived lookup tier in front of the provider.
// A ttl of zero stores the entry without expiry.
type RateCache interface {
	GetRate(ctx context.Context, key string) (decimal.Decimal, bool)
	SetRate(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration)
}

// Notifier delivers due reminders through whatever channels the host application
// supports. The engine only says what is due, never how to render it.
type Notifier interface {
	NotifyInvoiceDue(ctx context.Context, invoice domain.Invoice) error
	NotifySubscriptionDue(ctx context.Context, subscription domain.Subscription) error
}
