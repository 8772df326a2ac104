package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// SubscriptionReader defines read operations for subscription data
type SubscriptionReader interface {
	// FindSubscriptionByID retrieves a subscription by its ID.
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)

	// ListDueSubscriptions returns active subscriptions on active cards whose next
	// billing date is on or before referenceDate.
	ListDueSubscriptions(ctx context.Context, referenceDate time.Time) ([]domain.Subscription, error)

	// ListActiveSubscriptionsBillingBetween returns active subscriptions whose next
	// billing date falls within [from, to].
	ListActiveSubscriptionsBillingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error)

	// CountActiveSubscriptionsByCard counts active subscriptions charged to a card.
	CountActiveSubscriptionsByCard(ctx context.Context, cardID string) (int, error)
}

// SubscriptionWriter defines write operations for subscription data
type SubscriptionWriter interface {
	// SaveSubscription persists a new subscription.
	SaveSubscription(ctx context.Context, subscription domain.Subscription) error

	// UpdateSubscriptionStatus changes the status and, when nextBillingDate is not
	// nil, the next billing date.
	UpdateSubscriptionStatus(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus, nextBillingDate *time.Time, userID string, now time.Time) error

	// RecordSubscriptionCharge inserts charge and moves next_billing_date from
	// expectedNext to newNext in one database transaction. If another run already
	// advanced the date it fails with apperrors.ErrConflict and inserts nothing.
	RecordSubscriptionCharge(ctx context.Context, subscriptionID string, charge domain.Transaction, expectedNext, newNext time.Time) error
}

// SubscriptionRepositoryFacade combines all subscription-related repository interfaces
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
