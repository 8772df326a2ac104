package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cashback is the reward earned by an invoice.
// TransactionID is only set when a row is attributed to a single purchase.
type Cashback struct {
	CashbackID      string          `json:"cashbackID"`
	CardID          string          `json:"cardID"`
	InvoiceID       string          `json:"invoiceID"`
	TransactionID   *string         `json:"transactionID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	CalculationDate time.Time       `json:"calculationDate"`
	AuditFields
}
