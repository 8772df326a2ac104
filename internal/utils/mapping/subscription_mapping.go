package mapping

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	return models.Subscription{
		SubscriptionID:  d.SubscriptionID,
		UserID:          d.UserID,
		CardID:          d.CardID,
		Name:            d.Name,
		Category:        d.Category,
		Amount:          d.Amount,
		Frequency:       string(d.Frequency),
		StartDate:       d.StartDate,
		NextBillingDate: d.NextBillingDate,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) (domain.Subscription, error) {
	status, err := domain.ParseSubscriptionStatus(m.Status)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("subscription %s: %w", m.SubscriptionID, err)
	}
	freq, err := domain.ParseFrequency(m.Frequency)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("subscription %s: %w", m.SubscriptionID, err)
	}
	return domain.Subscription{
		SubscriptionID:  m.SubscriptionID,
		UserID:          m.UserID,
		CardID:          m.CardID,
		Name:            m.Name,
		Category:        m.Category,
		Amount:          m.Amount,
		Frequency:       freq,
		StartDate:       m.StartDate,
		NextBillingDate: m.NextBillingDate,
		Status:          status,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainSubscriptionSlice converts a slice of model Subscriptions to domain Subscriptions
func ToDomainSubscriptionSlice(ms []models.Subscription) ([]domain.Subscription, error) {
	ds := make([]domain.Subscription, len(ms))
	for i, m := range ms {
		d, err := ToDomainSubscription(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
