package mapping

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:  d.TransactionID,
		Type:           string(d.Type),
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		Date:           d.Date,
		Description:    d.Description,
		CardID:         d.CardID,
		BankAccountID:  d.BankAccountID,
		InvoiceID:      d.InvoiceID,
		SubscriptionID: d.SubscriptionID,
		Installments:   d.Installments,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// Rows with an unknown type are rejected instead of flowing into billing.
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	txnType, err := domain.ParseTransactionType(m.Type)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", m.TransactionID, err)
	}
	return domain.Transaction{
		TransactionID:  m.TransactionID,
		Type:           txnType,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		Date:           m.Date,
		Description:    m.Description,
		CardID:         m.CardID,
		BankAccountID:  m.BankAccountID,
		InvoiceID:      m.InvoiceID,
		SubscriptionID: m.SubscriptionID,
		Installments:   m.Installments,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.Transaction, error) {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
