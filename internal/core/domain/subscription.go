package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus is the lifecycle state of a recurring charge.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPaused   SubscriptionStatus = "paused"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// ParseSubscriptionStatus validates a persisted status value.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch st := SubscriptionStatus(s); st {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCanceled:
		return st, nil
	}
	return "", fmt.Errorf("unknown subscription status %q", s)
}

// Frequency is the billing interval of a subscription.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ParseFrequency validates a persisted frequency value.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case Monthly, Yearly:
		return f, nil
	}
	return "", fmt.Errorf("unknown subscription frequency %q", s)
}

// Subscription charges a card on a fixed calendar interval.
type Subscription struct {
	SubscriptionID  string             `json:"subscriptionID"`
	UserID          string             `json:"userID"`
	CardID          string             `json:"cardID"`
	Name            string             `json:"name"`
	Category        string             `json:"category"`
	Amount          decimal.Decimal    `json:"amount"` // In the card's currency
	Frequency       Frequency          `json:"frequency"`
	StartDate       time.Time          `json:"startDate"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	Status          SubscriptionStatus `json:"status"`
	AuditFields
}

// IsActive reports whether the subscription is billed by the billing run.
func (s Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}
