package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bankAccountColumns = `bank_account_id, user_id, bank_name, account_number, currency_code, balance, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBankAccountRepository struct {
	BaseRepository
}

// newPgxBankAccountRepository creates a new repository for bank account data.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBankAccountRepository implements portsrepo.BankAccountRepositoryFacade
var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID, &m.UserID, &m.BankName, &m.AccountNumber, &m.CurrencyCode, &m.Balance, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d, err := mapping.ToDomainBankAccount(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// lockBankAccount reads the account row with FOR UPDATE; balance mutations on the
// same account are serialized behind this lock until tx ends.
func lockBankAccount(ctx context.Context, tx pgx.Tx, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1 FOR UPDATE;`
	acc, err := scanBankAccount(tx.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
		}
		return nil, fmt.Errorf("failed to lock bank account %s: %w", bankAccountID, err)
	}
	return acc, nil
}

// applyBalanceDelta adds delta to the locked account's balance.
func applyBalanceDelta(ctx context.Context, tx pgx.Tx, acc *domain.BankAccount, delta decimal.Decimal, userID string, now time.Time) error {
	newBalance := acc.Balance.Add(delta)
	if newBalance.IsNegative() {
		return &apperrors.InsufficientFundsError{
			AccountID:    acc.BankAccountID,
			CurrencyCode: acc.CurrencyCode,
			Required:     delta.Neg(),
			Available:    acc.Balance,
		}
	}
	query := `
		UPDATE bank_accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	if _, err := tx.Exec(ctx, query, acc.BankAccountID, newBalance, now, userID); err != nil {
		return fmt.Errorf("failed to update balance of bank account %s: %w", acc.BankAccountID, err)
	}
	acc.Balance = newBalance
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	return nil
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID, m.UserID, m.BankName, m.AccountNumber, m.CurrencyCode, m.Balance, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: bank account with ID %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	acc, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find bank account by ID %s: %w", bankAccountID, err)
	}
	return acc, nil
}

// UpdateBankAccountStatus flips the account between active and inactive.
func (r *PgxBankAccountRepository) UpdateBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string, now time.Time) error {
	query := `
		UPDATE bank_accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, bankAccountID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of bank account %s: %w", bankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// PostBalanceEntry inserts entry and moves the balance by delta under a row lock.
func (r *PgxBankAccountRepository) PostBalanceEntry(ctx context.Context, bankAccountID string, entry domain.Transaction, delta decimal.Decimal) (*domain.BankAccount, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	acc, err := lockBankAccount(ctx, tx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, bankAccountID)
	}
	if entry.CurrencyCode != acc.CurrencyCode {
		return nil, fmt.Errorf("%w: entry currency %s does not match account currency %s", apperrors.ErrValidation, entry.CurrencyCode, acc.CurrencyCode)
	}

	if err := applyBalanceDelta(ctx, tx, acc, delta, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return nil, err
	}
	if err := insertTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return acc, nil
}
