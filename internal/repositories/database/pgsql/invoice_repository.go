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
)

const invoiceColumns = `invoice_id, card_id, month_reference, amount, currency_code, cashback_rate,
	closing_date, due_date, status, created_at, created_by, last_updated_at, last_updated_by`

const cashbackColumns = `cashback_id, card_id, invoice_id, transaction_id, amount, currency_code,
	calculation_date, created_at, created_by, last_updated_at, last_updated_by`

// invoiceCardMonthKey is the constraint that makes invoice creation idempotent.
const invoiceCardMonthKey = "invoices_card_month_key"

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and their cashback.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.CardID, &m.MonthReference, &m.Amount, &m.CurrencyCode, &m.CashbackRate,
		&m.ClosingDate, &m.DueDate, &m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	inv, err := mapping.ToDomainInvoice(m)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) findOne(ctx context.Context, q querier, where string, args ...any) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + where
	inv, err := scanInvoice(q.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return inv, err
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findOne(ctx, r.Pool, `invoice_id = $1;`, invoiceID)
}

// FindInvoiceByCardAndMonth retrieves the invoice of a card for a month reference.
func (r *PgxInvoiceRepository) FindInvoiceByCardAndMonth(ctx context.Context, cardID, monthReference string) (*domain.Invoice, error) {
	return r.findOne(ctx, r.Pool, `card_id = $1 AND month_reference = $2;`, cardID, monthReference)
}

// ListOpenInvoicesDueBetween returns open invoices with a due date within [from, to].
func (r *PgxInvoiceRepository) ListOpenInvoicesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = $1 AND due_date BETWEEN $2 AND $3
		ORDER BY due_date, invoice_id;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.InvoiceOpen), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices due between %s and %s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// ListCashbackByInvoice returns the cashback rows attached to an invoice.
func (r *PgxInvoiceRepository) ListCashbackByInvoice(ctx context.Context, invoiceID string) ([]domain.Cashback, error) {
	query := `SELECT ` + cashbackColumns + ` FROM cashback WHERE invoice_id = $1 ORDER BY created_at, cashback_id;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cashback of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var result []domain.Cashback
	for rows.Next() {
		var m models.Cashback
		if err := rows.Scan(
			&m.CashbackID, &m.CardID, &m.InvoiceID, &m.TransactionID, &m.Amount, &m.CurrencyCode,
			&m.CalculationDate, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cashback row: %w", err)
		}
		result = append(result, mapping.ToDomainCashback(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cashback rows: %w", err)
	}
	return result, nil
}

// CreateInvoice inserts the invoice, stamps the transactions and inserts the cashback atomically.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, transactionIDs []string, cashback []domain.Cashback) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	m := mapping.ToModelInvoice(invoice)
	insertInvoice := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insertInvoice,
		m.InvoiceID, m.CardID, m.MonthReference, m.Amount, m.CurrencyCode, m.CashbackRate,
		m.ClosingDate, m.DueDate, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, invoiceCardMonthKey) {
			return fmt.Errorf("%w: invoice for card %s and month %s already exists", apperrors.ErrDuplicate, m.CardID, m.MonthReference)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, err)
	}

	if len(transactionIDs) > 0 {
		stamp := `
			UPDATE transactions
			SET invoice_id = $1, last_updated_at = $2, last_updated_by = $3
			WHERE transaction_id = ANY($4) AND card_id = $5 AND invoice_id IS NULL;
		`
		cmdTag, err := tx.Exec(ctx, stamp, m.InvoiceID, m.LastUpdatedAt, m.LastUpdatedBy, transactionIDs, m.CardID)
		if err != nil {
			return fmt.Errorf("failed to stamp transactions onto invoice %s: %w", m.InvoiceID, err)
		}
		// A concurrent run billed some of them first.
		if cmdTag.RowsAffected() != int64(len(transactionIDs)) {
			return fmt.Errorf("%w: %d of %d transactions were already billed", apperrors.ErrConflict,
				int64(len(transactionIDs))-cmdTag.RowsAffected(), len(transactionIDs))
		}
	}

	if len(cashback) > 0 {
		insertCashback := `
			INSERT INTO cashback (` + cashbackColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		batch := &pgx.Batch{}
		for _, cb := range cashback {
			cm := mapping.ToModelCashback(cb)
			batch.Queue(insertCashback,
				cm.CashbackID, cm.CardID, cm.InvoiceID, cm.TransactionID, cm.Amount, cm.CurrencyCode,
				cm.CalculationDate, cm.CreatedAt, cm.CreatedBy, cm.LastUpdatedAt, cm.LastUpdatedBy,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert cashback for invoice %s: %w", m.InvoiceID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// SettleInvoice marks the invoice paid, records the payment and debits the account atomically.
func (r *PgxInvoiceRepository) SettleInvoice(ctx context.Context, s portsrepo.InvoiceSettlement) (*domain.BankAccount, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// Invoice first, then account: the same order everywhere avoids lock cycles.
	inv, err := r.findOne(ctx, tx, `invoice_id = $1 FOR UPDATE;`, s.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.IsOpen() {
		return nil, fmt.Errorf("%w: invoice %s is %s", apperrors.ErrInvalidState, inv.InvoiceID, inv.Status)
	}

	acc, err := lockBankAccount(ctx, tx, s.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, acc.BankAccountID)
	}
	if err := applyBalanceDelta(ctx, tx, acc, s.DebitAmount.Neg(), s.SettledBy, s.SettledAt); err != nil {
		return nil, err
	}

	markPaid := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, markPaid, inv.InvoiceID, string(domain.InvoicePaid), s.SettledAt, s.SettledBy, string(domain.InvoiceOpen))
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice %s paid: %w", inv.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: invoice %s is no longer open", apperrors.ErrInvalidState, inv.InvoiceID)
	}

	if err := insertTransaction(ctx, tx, s.Payment); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return acc, nil
}
