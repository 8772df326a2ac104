package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of every calendar date in the API.
const DateLayout = "2006-01-02"

// ParseDate parses an API date as midnight UTC. An empty value yields fallback.
func ParseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// FormatDate renders a calendar date in the API format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID  string                 `json:"transactionID"`
	Type           domain.TransactionType `json:"type"`
	Amount         decimal.Decimal        `json:"amount"`
	CurrencyCode   string                 `json:"currencyCode"`
	Date           string                 `json:"date"`
	Description    string                 `json:"description"`
	CardID         *string                `json:"cardID,omitempty"`
	BankAccountID  *string                `json:"bankAccountID,omitempty"`
	InvoiceID      *string                `json:"invoiceID,omitempty"`
	SubscriptionID *string                `json:"subscriptionID,omitempty"`
	Installments   int                    `json:"installments"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		Type:           txn.Type,
		Amount:         txn.Amount,
		CurrencyCode:   txn.CurrencyCode,
		Date:           FormatDate(txn.Date),
		Description:    txn.Description,
		CardID:         txn.CardID,
		BankAccountID:  txn.BankAccountID,
		InvoiceID:      txn.InvoiceID,
		SubscriptionID: txn.SubscriptionID,
		Installments:   txn.Installments,
		CreatedAt:      txn.CreatedAt,
		CreatedBy:      txn.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to response DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
