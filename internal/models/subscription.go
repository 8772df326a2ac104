package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is the subscriptions row.
type Subscription struct {
	SubscriptionID  string          `db:"subscription_id"`
	UserID          string          `db:"user_id"`
	CardID          string          `db:"card_id"`
	Name            string          `db:"name"`
	Category        string          `db:"category"`
	Amount          decimal.Decimal `db:"amount"`
	Frequency       string          `db:"frequency"`
	StartDate       time.Time       `db:"start_date"`
	NextBillingDate time.Time       `db:"next_billing_date"`
	Status          string          `db:"status"`
	AuditFields
}
