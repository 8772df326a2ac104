package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankAccountReader defines read operations for bank account data
type BankAccountReader interface {
	// FindBankAccountByID retrieves a bank account by its ID.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank account data
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// UpdateBankAccountStatus flips the account between active and inactive.
	UpdateBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string, now time.Time) error
}

// BalanceEntryPoster moves an account balance together with the ledger entry that explains it.
type BalanceEntryPoster interface {
	// PostBalanceEntry locks the account row, rejects the change with an
	// InsufficientFundsError if it would leave a negative balance, inserts entry and
	// applies delta, all in one database transaction. It returns the updated account.
	PostBalanceEntry(ctx context.Context, bankAccountID string, entry domain.Transaction, delta decimal.Decimal) (*domain.BankAccount, error)
}

// BankAccountRepositoryFacade combines all bank account-related repository interfaces
type BankAccountRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	BalanceEntryPoster
}
