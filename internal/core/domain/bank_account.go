package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BankAccountStatus is the lifecycle state of a bank account.
type BankAccountStatus string

const (
	BankAccountActive   BankAccountStatus = "active"
	BankAccountInactive BankAccountStatus = "inactive"
)

// ParseBankAccountStatus validates a persisted status value.
func ParseBankAccountStatus(s string) (BankAccountStatus, error) {
	switch st := BankAccountStatus(s); st {
	case BankAccountActive, BankAccountInactive:
		return st, nil
	}
	return "", fmt.Errorf("unknown bank account status %q", s)
}

// BankAccount holds money in a single, immutable currency.
// Its balance only moves through deposits, withdrawals and invoice settlements.
type BankAccount struct {
	BankAccountID string            `json:"bankAccountID"`
	UserID        string            `json:"userID"`
	BankName      string            `json:"bankName"`
	AccountNumber string            `json:"accountNumber"`
	CurrencyCode  string            `json:"currencyCode"`
	Balance       decimal.Decimal   `json:"balance"`
	Status        BankAccountStatus `json:"status"`
	AuditFields
}

// IsActive reports whether the account can be used for new ledger entries.
func (a BankAccount) IsActive() bool {
	return a.Status == BankAccountActive
}

// CanDebit reports whether amount can be withdrawn without the balance going negative.
func (a BankAccount) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
