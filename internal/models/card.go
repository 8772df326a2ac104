package models

import "github.com/shopspring/decimal"

// Card is the cards row.
type Card struct {
	CardID         string              `db:"card_id"`
	UserID         string              `db:"user_id"`
	BankAccountID  string              `db:"bank_account_id"`
	Name           string              `db:"name"`
	Brand          string              `db:"brand"`
	CurrencyCode   string              `db:"currency_code"`
	CreditLimit    decimal.Decimal     `db:"credit_limit"`
	ClosingDay     int                 `db:"closing_day"`
	PaymentDueDay  int                 `db:"payment_due_day"`
	CashbackRate   decimal.NullDecimal `db:"cashback_rate"` // Nullable
	CashbackPolicy string              `db:"cashback_policy"`
	Status         string              `db:"status"`
	AuditFields
}
