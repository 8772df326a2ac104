package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions row. Type is stored as free text and
// validated when mapped back to the domain.
type Transaction struct {
	TransactionID  string          `db:"transaction_id"`
	Type           string          `db:"type"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	Date           time.Time       `db:"transaction_date"`
	Description    string          `db:"description"`
	CardID         *string         `db:"card_id"`
	BankAccountID  *string         `db:"bank_account_id"`
	InvoiceID      *string         `db:"invoice_id"`
	SubscriptionID *string         `db:"subscription_id"`
	Installments   int             `db:"installments"`
	AuditFields
}
