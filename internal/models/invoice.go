package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the invoices row; (card_id, month_reference) is unique.
type Invoice struct {
	InvoiceID      string              `db:"invoice_id"`
	CardID         string              `db:"card_id"`
	MonthReference string              `db:"month_reference"`
	Amount         decimal.Decimal     `db:"amount"`
	CurrencyCode   string              `db:"currency_code"`
	CashbackRate   decimal.NullDecimal `db:"cashback_rate"`
	ClosingDate    time.Time           `db:"closing_date"`
	DueDate        time.Time           `db:"due_date"`
	Status         string              `db:"status"`
	AuditFields
}

// Cashback is the cashback row.
type Cashback struct {
	CashbackID      string          `db:"cashback_id"`
	CardID          string          `db:"card_id"`
	InvoiceID       string          `db:"invoice_id"`
	TransactionID   *string         `db:"transaction_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	CalculationDate time.Time       `db:"calculation_date"`
	AuditFields
}
