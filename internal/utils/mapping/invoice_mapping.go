package mapping

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		CardID:         d.CardID,
		MonthReference: d.MonthReference,
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		CashbackRate:   toNullDecimal(d.CashbackRate),
		ClosingDate:    d.ClosingDate,
		DueDate:        d.DueDate,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) (domain.Invoice, error) {
	status, err := domain.ParseInvoiceStatus(m.Status)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("invoice %s: %w", m.InvoiceID, err)
	}
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		CardID:         m.CardID,
		MonthReference: m.MonthReference,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		CashbackRate:   fromNullDecimal(m.CashbackRate),
		ClosingDate:    m.ClosingDate,
		DueDate:        m.DueDate,
		Status:         status,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainInvoiceSlice converts a slice of model Invoices to domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) ([]domain.Invoice, error) {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		d, err := ToDomainInvoice(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelCashback converts a domain Cashback to a model Cashback
func ToModelCashback(d domain.Cashback) models.Cashback {
	return models.Cashback{
		CashbackID:      d.CashbackID,
		CardID:          d.CardID,
		InvoiceID:       d.InvoiceID,
		TransactionID:   d.TransactionID,
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		CalculationDate: d.CalculationDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashback converts a model Cashback to a domain Cashback
func ToDomainCashback(m models.Cashback) domain.Cashback {
	return domain.Cashback{
		CashbackID:      m.CashbackID,
		CardID:          m.CardID,
		InvoiceID:       m.InvoiceID,
		TransactionID:   m.TransactionID,
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		CalculationDate: m.CalculationDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
