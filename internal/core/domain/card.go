package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardActive   CardStatus = "active"
	CardInactive CardStatus = "inactive"
)

// ParseCardStatus validates a persisted status value.
func ParseCardStatus(s string) (CardStatus, error) {
	switch st := CardStatus(s); st {
	case CardActive, CardInactive:
		return st, nil
	}
	return "", fmt.Errorf("unknown card status %q", s)
}

// CashbackPolicy selects how cashback is computed when an invoice is generated.
type CashbackPolicy string

const (
	// CashbackPerTransaction applies the rate to each eligible purchase.
	CashbackPerTransaction CashbackPolicy = "per_transaction"
	// CashbackPerInvoice applies the rate to the invoice total.
	CashbackPerInvoice     CashbackPolicy = "per_invoice"
)

// ParseCashbackPolicy validates a persisted policy value.
func ParseCashbackPolicy(s string) (CashbackPolicy, error) {
	switch p := CashbackPolicy(s); p {
	case CashbackPerTransaction, CashbackPerInvoice:
		return p, nil
	}
	return "", fmt.Errorf("unknown cashback policy %q", s)
}

const (
	MinClosingDay = 1
	MaxClosingDay = 28
	MinDueDay     = 1
	MaxDueDay     = 31
)

// Card is a credit card billed monthly on its closing day.
type Card struct {
	CardID         string           `json:"cardID"`
	UserID         string           `json:"userID"`
	BankAccountID  string           `json:"bankAccountID"`
	Name           string           `json:"name"`
	Brand          string           `json:"brand"`
	CurrencyCode   string           `json:"currencyCode"`
	CreditLimit    decimal.Decimal  `json:"creditLimit"`
	ClosingDay     int              `json:"closingDay"`
	PaymentDueDay  int              `json:"paymentDueDay"`
	CashbackRate   *decimal.Decimal `json:"cashbackRate,omitempty"` // percentage, e.g. 1.5
	CashbackPolicy CashbackPolicy   `json:"cashbackPolicy"`
	Status         CardStatus       `json:"status"`
	AuditFields
}

// IsActive reports whether the card takes part in billing runs.
func (c Card) IsActive() bool {
	return c.Status == CardActive
}

// EarnsCashback reports whether a positive cashback rate is configured.
func (c Card) EarnsCashback() bool {
	return c.CashbackRate != nil && c.CashbackRate.IsPositive()
}

// Validate checks the static card invariants.
func (c Card) Validate() error {
	if c.ClosingDay < MinClosingDay || c.ClosingDay > MaxClosingDay {
		return fmt.Errorf("closing day must be between %d and %d, got %d", MinClosingDay, MaxClosingDay, c.ClosingDay)
	}
	if c.PaymentDueDay < MinDueDay || c.PaymentDueDay > MaxDueDay {
		return fmt.Errorf("payment due day must be between %d and %d, got %d", MinDueDay, MaxDueDay, c.PaymentDueDay)
	}
	if c.CashbackRate != nil && (c.CashbackRate.IsNegative() || c.CashbackRate.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("cashback rate must be between 0 and 100, got %s", c.CashbackRate)
	}
	if c.CreditLimit.IsNegative() {
		return fmt.Errorf("credit limit cannot be negative")
	}
	return nil
}
