package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindUnbilledTransactions returns the card's transactions in currencyCode dated
	// within [from, to] that are not linked to any invoice yet.
	FindUnbilledTransactions(ctx context.Context, cardID, currencyCode string, from, to time.Time) ([]domain.Transaction, error)

	// ListTransactionsByInvoice returns the transactions billed on an invoice.
	ListTransactionsByInvoice(ctx context.Context, invoiceID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// SaveTransaction persists a single transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
