package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// InvoiceGeneratorSvc closes card billing periods into invoices
type InvoiceGeneratorSvc interface {
	// GenerateInvoice runs the generator for one card. Skips are reported in the
	// outcome, not as errors.
	GenerateInvoice(ctx context.Context, card domain.Card, referenceDate time.Time, force bool) (*domain.InvoiceOutcome, error)

	// GenerateInvoices runs the generator for every active card. A failing card is
	// recorded in the report and does not stop the others.
	GenerateInvoices(ctx context.Context, referenceDate time.Time, force bool) (*domain.GenerationReport, error)
}

// InvoiceReaderSvc reads invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoiceTransactions(ctx context.Context, invoiceID string) ([]domain.Transaction, error)
	ListInvoiceCashback(ctx context.Context, invoiceID string) ([]domain.Cashback, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceGeneratorSvc
	InvoiceReaderSvc
}

// SettlementSvc pays invoices from bank accounts
type SettlementSvc interface {
	// PayInvoice settles an open invoice from a bank account at the payment date's rate.
	PayInvoice(ctx context.Context, invoiceID, bankAccountID string, paymentDate time.Time, userID string) (*domain.Settlement, error)
}

// SubscriptionBillingSvc charges due subscriptions
type SubscriptionBillingSvc interface {
	// RunBillingCycle charges every due subscription once and advances it past referenceDate.
	RunBillingCycle(ctx context.Context, referenceDate time.Time) (*domain.BillingRunReport, error)
}

// DueNotificationSvc scans for upcoming payments and hands them to the notifier
type DueNotificationSvc interface {
	// NotifyInvoicesDue notifies open invoices due within the lookahead window of today.
	NotifyInvoicesDue(ctx context.Context, today time.Time) (int, error)

	// NotifySubscriptionsDue notifies active subscriptions billing within the lookahead window of today.
	NotifySubscriptionsDue(ctx context.Context, today time.Time) (int, error)
}
