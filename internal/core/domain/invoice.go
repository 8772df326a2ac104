package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceOpen InvoiceStatus = "open"
	InvoicePaid InvoiceStatus = "paid"
)

// ParseInvoiceStatus validates a persisted status value.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch st := InvoiceStatus(s); st {
	case InvoiceOpen, InvoicePaid:
		return st, nil
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

// MonthReferenceLayout formats the closing date into the invoice idempotency key.
const MonthReferenceLayout = "2006-01"

// MonthReference returns the YYYY-MM key of a closing date.
func MonthReference(closingDate time.Time) string {
	return closingDate.Format(MonthReferenceLayout)
}

// Invoice aggregates one closing period of a card. (CardID, MonthReference) is unique.
type Invoice struct {
	InvoiceID      string           `json:"invoiceID"`
	CardID         string           `json:"cardID"`
	MonthReference string           `json:"monthReference"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyCode   string           `json:"currencyCode"`
	CashbackRate   *decimal.Decimal `json:"cashbackRate,omitempty"`
	ClosingDate    time.Time        `json:"closingDate"`
	DueDate        time.Time        `json:"dueDate"`
	Status         InvoiceStatus    `json:"status"`
	AuditFields
}

// IsOpen reports whether the invoice still awaits payment.
func (i Invoice) IsOpen() bool {
	return i.Status == InvoiceOpen
}
