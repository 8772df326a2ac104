package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/finance_ledger/internal/models"
	"github.com/SscSPs/finance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, type, amount, currency_code, transaction_date, description,
	card_id, bank_account_id, invoice_id, subscription_id, installments,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.Type, &m.Amount, &m.CurrencyCode, &m.Date, &m.Description,
		&m.CardID, &m.BankAccountID, &m.InvoiceID, &m.SubscriptionID, &m.Installments,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms)
}

// insertTransaction writes one ledger entry through q, which may be a pool or an open tx.
func insertTransaction(ctx context.Context, q querier, txn domain.Transaction) error {
	if err := txn.ValidateOwnership(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	m := mapping.ToModelTransaction(txn)
	if m.Installments < 1 {
		m.Installments = 1
	}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID, m.Type, m.Amount, m.CurrencyCode, m.Date, m.Description,
		m.CardID, m.BankAccountID, m.InvoiceID, m.SubscriptionID, m.Installments,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// SaveTransaction persists a single transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, txn)
}

// FindUnbilledTransactions returns the card's unbilled transactions in the window.
func (r *PgxTransactionRepository) FindUnbilledTransactions(ctx context.Context, cardID, currencyCode string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE card_id = $1
		  AND currency_code = $2
		  AND transaction_date BETWEEN $3 AND $4
		  AND invoice_id IS NULL
		ORDER BY transaction_date, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, cardID, currencyCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query unbilled transactions for card %s: %w", cardID, err)
	}
	return collectTransactions(rows)
}

// ListTransactionsByInvoice returns the transactions billed on an invoice.
func (r *PgxTransactionRepository) ListTransactionsByInvoice(ctx context.Context, invoiceID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE invoice_id = $1 AND type <> $2
		ORDER BY transaction_date, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID, string(domain.InvoicePayment))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions of invoice %s: %w", invoiceID, err)
	}
	return collectTransactions(rows)
}
