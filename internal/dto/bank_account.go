package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to open a bank account.
// The balance starts at zero and only moves through deposits, withdrawals and settlements.
type CreateBankAccountRequest struct {
	BankName      string `json:"bankName" binding:"required"`
	AccountNumber string `json:"accountNumber"` // Optional
	CurrencyCode  string `json:"currencyCode" binding:"required,iso4217"`
}

// BalanceEntryRequest defines a deposit or withdrawal.
type BalanceEntryRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"` // Defaults to today
	Description string          `json:"description"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID string                   `json:"bankAccountID"`
	BankName      string                   `json:"bankName"`
	AccountNumber string                   `json:"accountNumber"`
	CurrencyCode  string                   `json:"currencyCode"`
	Balance       decimal.Decimal          `json:"balance"`
	Status        domain.BankAccountStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy string                   `json:"lastUpdatedBy"`
}

// ToBankAccountResponse converts a domain.BankAccount to BankAccountResponse DTO
func ToBankAccountResponse(acc *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID: acc.BankAccountID,
		BankName:      acc.BankName,
		AccountNumber: acc.AccountNumber,
		CurrencyCode:  acc.CurrencyCode,
		Balance:       acc.Balance,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// UpdateBankAccountStatusRequest activates or deactivates a bank account.
type UpdateBankAccountStatusRequest struct {
	Status domain.BankAccountStatus `json:"status" binding:"required,oneof=active inactive"`
}
