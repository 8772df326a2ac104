package dto

import "github.com/SscSPs/finance_ledger/internal/core/domain"

// GenerateInvoicesRequest triggers the invoice generator. Date overrides the
// reference date for backfills; Force bypasses the closing-day gate.
type GenerateInvoicesRequest struct {
	Date  string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Force bool   `json:"force"`
}

// JobDateRequest triggers a job with an optional reference date override.
type JobDateRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// GenerationReportResponse summarizes an invoice generation run.
type GenerationReportResponse struct {
	ReferenceDate string                  `json:"referenceDate"`
	Created       []domain.InvoiceOutcome `json:"created"`
	Skipped       []domain.InvoiceOutcome `json:"skipped"`
	Failed        []domain.InvoiceFailure `json:"failed"`
}

// BillingRunResponse summarizes a subscription billing run.
type BillingRunResponse struct {
	ReferenceDate string                       `json:"referenceDate"`
	Transactions  []TransactionResponse        `json:"transactions"`
	Failed        []domain.SubscriptionFailure `json:"failed"`
}

// NotifyResponse reports how many reminders were dispatched.
type NotifyResponse struct {
	ReferenceDate string `json:"referenceDate"`
	Notified      int    `json:"notified"`
}
