package mapping

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

// ToModelCard converts a domain Card to a model Card
func ToModelCard(d domain.Card) models.Card {
	return models.Card{
		CardID:         d.CardID,
		UserID:         d.UserID,
		BankAccountID:  d.BankAccountID,
		Name:           d.Name,
		Brand:          d.Brand,
		CurrencyCode:   d.CurrencyCode,
		CreditLimit:    d.CreditLimit,
		ClosingDay:     d.ClosingDay,
		PaymentDueDay:  d.PaymentDueDay,
		CashbackRate:   toNullDecimal(d.CashbackRate),
		CashbackPolicy: string(d.CashbackPolicy),
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCard converts a model Card to a domain Card, validating its enums.
func ToDomainCard(m models.Card) (domain.Card, error) {
	status, err := domain.ParseCardStatus(m.Status)
	if err != nil {
		return domain.Card{}, fmt.Errorf("card %s: %w", m.CardID, err)
	}
	policy, err := domain.ParseCashbackPolicy(m.CashbackPolicy)
	if err != nil {
		return domain.Card{}, fmt.Errorf("card %s: %w", m.CardID, err)
	}
	return domain.Card{
		CardID:         m.CardID,
		UserID:         m.UserID,
		BankAccountID:  m.BankAccountID,
		Name:           m.Name,
		Brand:          m.Brand,
		CurrencyCode:   m.CurrencyCode,
		CreditLimit:    m.CreditLimit,
		ClosingDay:     m.ClosingDay,
		PaymentDueDay:  m.PaymentDueDay,
		CashbackRate:   fromNullDecimal(m.CashbackRate),
		CashbackPolicy: policy,
		Status:         status,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainCardSlice converts a slice of model Cards to a slice of domain Cards
func ToDomainCardSlice(ms []models.Card) ([]domain.Card, error) {
	ds := make([]domain.Card, len(ms))
	for i, m := range ms {
		d, err := ToDomainCard(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
