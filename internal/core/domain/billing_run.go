package domain

// SkipReason explains why a card produced no invoice. Skips are not errors.
type SkipReason string

const (
	SkipNotClosingDay    SkipReason = "not_closing_day"
	SkipInvoiceExists    SkipReason = "invoice_exists"
	SkipNoTransactions   SkipReason = "no_unbilled_transactions"
	SkipNonPositiveTotal SkipReason = "non_positive_total"
	SkipCardInactive     SkipReason = "card_inactive"
)

// InvoiceOutcome is the result of running the generator for a single card.
type InvoiceOutcome struct {
	CardID         string     `json:"cardID"`
	MonthReference string     `json:"monthReference"`
	Invoice        *Invoice   `json:"invoice,omitempty"`
	Cashback       *Cashback  `json:"cashback,omitempty"`
	SkipReason     SkipReason `json:"skipReason,omitempty"`
}

// Created reports whether a new invoice was written.
func (o InvoiceOutcome) Created() bool {
	return o.Invoice != nil
}

// InvoiceFailure records a card whose invoice could not be generated.
type InvoiceFailure struct {
	CardID string `json:"cardID"`
	Error  string `json:"error"`
}

// GenerationReport summarizes a batch invoice run over all active cards.
type GenerationReport struct {
	Created []InvoiceOutcome `json:"created"`
	Skipped []InvoiceOutcome `json:"skipped"`
	Failed  []InvoiceFailure `json:"failed"`
}

// SubscriptionFailure records a subscription the billing run could not charge.
type SubscriptionFailure struct {
	SubscriptionID string `json:"subscriptionID"`
	Error          string `json:"error"`
}

// BillingRunReport summarizes a subscription billing run.
type BillingRunReport struct {
	Transactions []Transaction         `json:"transactions"`
	Failed       []SubscriptionFailure `json:"failed"`
}
