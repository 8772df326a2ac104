package domain

import "github.com/shopspring/decimal"

// Settlement describes a paid invoice and the money that left the bank account.
type Settlement struct {
	Invoice     Invoice     `json:"invoice"`
	Payment     Transaction `json:"payment"`
	BankAccount BankAccount `json:"bankAccount"`
	// DebitAmount is in BankAccount.CurrencyCode; it equals Invoice.Amount when
	// the currencies match.
	DebitAmount decimal.Decimal `json:"debitAmount"`
	// Rate is the invoice-to-account rate used, 1 for same-currency payments.
	Rate decimal.Decimal `json:"rate"`
}
