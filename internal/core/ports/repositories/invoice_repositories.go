package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceSettlement is everything written when an invoice is paid.
type InvoiceSettlement struct {
	InvoiceID     string
	BankAccountID string
	// DebitAmount is expressed in the bank account's currency.
	DebitAmount decimal.Decimal
	// Payment is the invoice_payment ledger entry, in the invoice currency.
	Payment   domain.Transaction
	SettledBy string
	SettledAt time.Time
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its ID.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByCardAndMonth retrieves the invoice of a card for a month reference.
	FindInvoiceByCardAndMonth(ctx context.Context, cardID, monthReference string) (*domain.Invoice, error)

	// ListOpenInvoicesDueBetween returns open invoices with a due date within [from, to].
	ListOpenInvoicesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Invoice, error)

	// ListCashbackByInvoice returns the cashback rows attached to an invoice.
	ListCashbackByInvoice(ctx context.Context, invoiceID string) ([]domain.Cashback, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// CreateInvoice inserts the invoice, stamps its ID onto every listed transaction
	// and inserts the cashback rows in one database transaction. A second invoice for
	// the same (card, month reference) fails with apperrors.ErrDuplicate; a listed
	// transaction that is already billed fails with apperrors.ErrConflict. Either
	// failure leaves nothing behind.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, transactionIDs []string, cashback []domain.Cashback) error

	// SettleInvoice marks the invoice paid, inserts the payment entry and debits the
	// account in one database transaction. The invoice and account rows are locked, so
	// only one concurrent settlement of the same invoice succeeds; the others fail with
	// apperrors.ErrInvalidState. Returns the updated account.
	SettleInvoice(ctx context.Context, settlement InvoiceSettlement) (*domain.BankAccount, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
