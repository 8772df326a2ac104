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

const subscriptionColumns = `s.subscription_id, s.user_id, s.card_id, s.name, s.category, s.amount, s.frequency,
	s.start_date, s.next_billing_date, s.status, s.created_at, s.created_by, s.last_updated_at, s.last_updated_by`

type PgxSubscriptionRepository struct {
	BaseRepository
}

// newPgxSubscriptionRepository creates a new repository for subscription data.
func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepositoryFacade {
	return &PgxSubscriptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

func scanSubscription(row pgx.Row) (models.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID, &m.UserID, &m.CardID, &m.Name, &m.Category, &m.Amount, &m.Frequency,
		&m.StartDate, &m.NextBillingDate, &m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSubscriptionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var ms []models.Subscription
	for rows.Next() {
		m, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return mapping.ToDomainSubscriptionSlice(ms)
}

// SaveSubscription inserts a new subscription.
func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := mapping.ToModelSubscription(subscription)
	query := `
		INSERT INTO subscriptions (subscription_id, user_id, card_id, name, category, amount, frequency,
			start_date, next_billing_date, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SubscriptionID, m.UserID, m.CardID, m.Name, m.Category, m.Amount, m.Frequency,
		m.StartDate, m.NextBillingDate, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: subscription with ID %s already exists", apperrors.ErrDuplicate, m.SubscriptionID)
		}
		return fmt.Errorf("failed to save subscription %s: %w", m.SubscriptionID, err)
	}
	return nil
}

// FindSubscriptionByID retrieves a subscription by its ID.
func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions s WHERE s.subscription_id = $1;`
	m, err := scanSubscription(r.Pool.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by ID %s: %w", subscriptionID, err)
	}
	sub, err := mapping.ToDomainSubscription(m)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListDueSubscriptions returns active subscriptions on active cards due on or before referenceDate.
func (r *PgxSubscriptionRepository) ListDueSubscriptions(ctx context.Context, referenceDate time.Time) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN cards c ON c.card_id = s.card_id
		WHERE s.status = $1 AND c.status = $2 AND s.next_billing_date <= $3
		ORDER BY s.next_billing_date, s.subscription_id;
	`
	return r.list(ctx, query, string(domain.SubscriptionActive), string(domain.CardActive), referenceDate)
}

// ListActiveSubscriptionsBillingBetween returns active subscriptions billing within [from, to].
func (r *PgxSubscriptionRepository) ListActiveSubscriptionsBillingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		WHERE s.status = $1 AND s.next_billing_date BETWEEN $2 AND $3
		ORDER BY s.next_billing_date, s.subscription_id;
	`
	return r.list(ctx, query, string(domain.SubscriptionActive), from, to)
}

// CountActiveSubscriptionsByCard counts active subscriptions charged to a card.
func (r *PgxSubscriptionRepository) CountActiveSubscriptionsByCard(ctx context.Context, cardID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM subscriptions WHERE card_id = $1 AND status = $2;`
	if err := r.Pool.QueryRow(ctx, query, cardID, string(domain.SubscriptionActive)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions of card %s: %w", cardID, err)
	}
	return count, nil
}

// UpdateSubscriptionStatus changes the status and optionally the next billing date.
func (r *PgxSubscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus, nextBillingDate *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $2, next_billing_date = COALESCE($3, next_billing_date), last_updated_at = $4, last_updated_by = $5
		WHERE subscription_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, subscriptionID, string(status), nextBillingDate, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", subscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordSubscriptionCharge inserts the charge and advances next_billing_date if it still equals expectedNext.
func (r *PgxSubscriptionRepository) RecordSubscriptionCharge(ctx context.Context, subscriptionID string, charge domain.Transaction, expectedNext, newNext time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	advance := `
		UPDATE subscriptions
		SET next_billing_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE subscription_id = $1 AND next_billing_date = $2 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, advance, subscriptionID, expectedNext, newNext, charge.CreatedAt, charge.CreatedBy, string(domain.SubscriptionActive))
	if err != nil {
		return fmt.Errorf("failed to advance subscription %s: %w", subscriptionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: subscription %s was already billed for %s", apperrors.ErrConflict, subscriptionID, expectedNext.Format(time.DateOnly))
	}

	if err := insertTransaction(ctx, tx, charge); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
