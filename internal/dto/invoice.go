package dto

import (
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PayInvoiceRequest defines an invoice settlement from a bank account.
type PayInvoiceRequest struct {
	BankAccountID string `json:"bankAccountID" binding:"required"`
	PaymentDate   string `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"` // Defaults to today
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	CardID         string               `json:"cardID"`
	MonthReference string               `json:"monthReference"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyCode   string               `json:"currencyCode"`
	CashbackRate   *decimal.Decimal     `json:"cashbackRate,omitempty"`
	ClosingDate    string               `json:"closingDate"`
	DueDate        string               `json:"dueDate"`
	Status         domain.InvoiceStatus `json:"status"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		CardID:         inv.CardID,
		MonthReference: inv.MonthReference,
		Amount:         inv.Amount,
		CurrencyCode:   inv.CurrencyCode,
		CashbackRate:   inv.CashbackRate,
		ClosingDate:    FormatDate(inv.ClosingDate),
		DueDate:        FormatDate(inv.DueDate),
		Status:         inv.Status,
	}
}

// InvoiceDetailResponse is an invoice with the transactions billed on it and its cashback.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Transactions []TransactionResponse `json:"transactions"`
	Cashback     []CashbackResponse    `json:"cashback"`
}

// CashbackResponse defines the data returned for a cashback row.
type CashbackResponse struct {
	CashbackID      string          `json:"cashbackID"`
	TransactionID   *string         `json:"transactionID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	CalculationDate string          `json:"calculationDate"`
}

// ToListCashbackResponse converts cashback rows to response DTOs
func ToListCashbackResponse(rows []domain.Cashback) []CashbackResponse {
	res := make([]CashbackResponse, len(rows))
	for i, cb := range rows {
		res[i] = CashbackResponse{
			CashbackID:      cb.CashbackID,
			TransactionID:   cb.TransactionID,
			Amount:          cb.Amount,
			CurrencyCode:    cb.CurrencyCode,
			CalculationDate: FormatDate(cb.CalculationDate),
		}
	}
	return res
}

// SettlementResponse is returned after an invoice is paid.
type SettlementResponse struct {
	Invoice     InvoiceResponse     `json:"invoice"`
	Payment     TransactionResponse `json:"payment"`
	BankAccount BankAccountResponse `json:"bankAccount"`
	DebitAmount decimal.Decimal     `json:"debitAmount"`
	Rate        decimal.Decimal     `json:"rate"`
}

// ToSettlementResponse converts a domain.Settlement to SettlementResponse DTO
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		Invoice:     ToInvoiceResponse(&s.Invoice),
		Payment:     ToTransactionResponse(&s.Payment),
		BankAccount: ToBankAccountResponse(&s.BankAccount),
		DebitAmount: s.DebitAmount,
		Rate:        s.Rate,
	}
}
