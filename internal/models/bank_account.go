package models

import "github.com/shopspring/decimal"

// BankAccount is the bank_accounts row.
type BankAccount struct {
	BankAccountID string          `db:"bank_account_id"`
	UserID        string          `db:"user_id"`
	BankName      string          `db:"bank_name"`
	AccountNumber string          `db:"account_number"`
	CurrencyCode  string          `db:"currency_code"`
	Balance       decimal.Decimal `db:"balance"`
	Status        string          `db:"status"`
	AuditFields
}
