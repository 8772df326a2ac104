package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry and decides which entity owns it.
type TransactionType string

const (
	CardPurchase         TransactionType = "card_purchase"
	SubscriptionPurchase TransactionType = "subscription_purchase"
	BankDeposit          TransactionType = "bank_deposit"
	BankWithdrawal       TransactionType = "bank_withdrawal"
	InvoicePayment       TransactionType = "invoice_payment"
)

// ParseTransactionType validates a persisted type value.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case CardPurchase, SubscriptionPurchase, BankDeposit, BankWithdrawal, InvoicePayment:
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// EarnsCashback reports whether the type is a purchase eligible for per-transaction cashback.
func (t TransactionType) EarnsCashback() bool {
	return t == CardPurchase || t == SubscriptionPurchase
}

// IsCardOwned reports whether the card is the primary owner for this type.
func (t TransactionType) IsCardOwned() bool {
	return t == CardPurchase || t == SubscriptionPurchase || t == InvoicePayment
}

// Transaction is a single ledger entry. Once InvoiceID is set it is billed and immutable.
type Transaction struct {
	TransactionID  string          `json:"transactionID"`
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	CurrencyCode   string          `json:"currencyCode"` // Always the owning card's or account's currency
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	CardID         *string         `json:"cardID,omitempty"`
	BankAccountID  *string         `json:"bankAccountID,omitempty"`
	InvoiceID      *string         `json:"invoiceID,omitempty"`
	SubscriptionID *string         `json:"subscriptionID,omitempty"`
	Installments   int             `json:"installments"`
	AuditFields
}

// IsBilled reports whether the transaction has been stamped onto an invoice.
func (t Transaction) IsBilled() bool {
	return t.InvoiceID != nil && *t.InvoiceID != ""
}

// ValidateOwnership checks that the owner reference required by the type is present.
func (t Transaction) ValidateOwnership() error {
	switch t.Type {
	case CardPurchase, SubscriptionPurchase:
		if t.CardID == nil || *t.CardID == "" {
			return fmt.Errorf("%s transaction requires a card", t.Type)
		}
	case BankDeposit, BankWithdrawal:
		if t.BankAccountID == nil || *t.BankAccountID == "" {
			return fmt.Errorf("%s transaction requires a bank account", t.Type)
		}
		if t.CardID != nil {
			return fmt.Errorf("%s transaction cannot reference a card", t.Type)
		}
	case InvoicePayment:
		if t.CardID == nil || t.BankAccountID == nil || t.InvoiceID == nil {
			return fmt.Errorf("invoice payment requires card, bank account and invoice")
		}
	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	return nil
}
