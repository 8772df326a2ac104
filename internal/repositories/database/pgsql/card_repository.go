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

const cardColumns = `card_id, user_id, bank_account_id, name, brand, currency_code, credit_limit,
	closing_day, payment_due_day, cashback_rate, cashback_policy, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCardRepository struct {
	BaseRepository
}

// newPgxCardRepository creates a new repository for card data.
func newPgxCardRepository(pool *pgxpool.Pool) portsrepo.CardRepositoryFacade {
	return &PgxCardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CardRepositoryFacade = (*PgxCardRepository)(nil)

func scanCard(row pgx.Row) (models.Card, error) {
	var m models.Card
	err := row.Scan(
		&m.CardID, &m.UserID, &m.BankAccountID, &m.Name, &m.Brand, &m.CurrencyCode, &m.CreditLimit,
		&m.ClosingDay, &m.PaymentDueDay, &m.CashbackRate, &m.CashbackPolicy, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveCard inserts a new card.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CardID, m.UserID, m.BankAccountID, m.Name, m.Brand, m.CurrencyCode, m.CreditLimit,
		m.ClosingDay, m.PaymentDueDay, m.CashbackRate, m.CashbackPolicy, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: card with ID %s already exists", apperrors.ErrDuplicate, m.CardID)
		}
		return fmt.Errorf("failed to save card %s: %w", m.CardID, err)
	}
	return nil
}

// FindCardByID retrieves a card by its ID.
func (r *PgxCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1;`
	m, err := scanCard(r.Pool.QueryRow(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card by ID %s: %w", cardID, err)
	}
	card, err := mapping.ToDomainCard(m)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// ListActiveCards retrieves every active card, oldest first.
func (r *PgxCardRepository) ListActiveCards(ctx context.Context) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE status = $1 ORDER BY created_at, card_id;`
	rows, err := r.Pool.Query(ctx, query, string(domain.CardActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active cards: %w", err)
	}
	defer rows.Close()

	var ms []models.Card
	for rows.Next() {
		m, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}
	return mapping.ToDomainCardSlice(ms)
}

// UpdateCardStatus changes the card status.
func (r *PgxCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error {
	query := `
		UPDATE cards
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE card_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, cardID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of card %s: %w", cardID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
