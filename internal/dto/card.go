package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCardRequest defines the data needed to register a credit card.
type CreateCardRequest struct {
	BankAccountID  string                `json:"bankAccountID" binding:"required"`
	Name           string                `json:"name" binding:"required"`
	Brand          string                `json:"brand"`
	CurrencyCode   string                `json:"currencyCode" binding:"required,iso4217"`
	CreditLimit    decimal.Decimal       `json:"creditLimit" binding:"gte=0"`
	ClosingDay     int                   `json:"closingDay" binding:"required,min=1,max=28"`
	PaymentDueDay  int                   `json:"paymentDueDay" binding:"required,min=1,max=31"`
	CashbackRate   *decimal.Decimal      `json:"cashbackRate" binding:"omitempty,gte=0,lte=100"` // Optional, percentage
	CashbackPolicy domain.CashbackPolicy `json:"cashbackPolicy" binding:"omitempty,oneof=per_transaction per_invoice"`
}

// CardPurchaseRequest records a purchase on a card. The currency is always the card's.
type CardPurchaseRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Date         string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description  string          `json:"description" binding:"required"`
	Installments int             `json:"installments" binding:"omitempty,min=1"`
}

// CardResponse defines the data returned for a card.
type CardResponse struct {
	CardID         string                `json:"cardID"`
	BankAccountID  string                `json:"bankAccountID"`
	Name           string                `json:"name"`
	Brand          string                `json:"brand"`
	CurrencyCode   string                `json:"currencyCode"`
	CreditLimit    decimal.Decimal       `json:"creditLimit"`
	ClosingDay     int                   `json:"closingDay"`
	PaymentDueDay  int                   `json:"paymentDueDay"`
	CashbackRate   *decimal.Decimal      `json:"cashbackRate,omitempty"`
	CashbackPolicy domain.CashbackPolicy `json:"cashbackPolicy"`
	Status         domain.CardStatus     `json:"status"`
	CreatedAt      time.Time             `json:"createdAt"`
	LastUpdatedAt  time.Time             `json:"lastUpdatedAt"`
}

// ToCardResponse converts a domain.Card to CardResponse DTO
func ToCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		CardID:         card.CardID,
		BankAccountID:  card.BankAccountID,
		Name:           card.Name,
		Brand:          card.Brand,
		CurrencyCode:   card.CurrencyCode,
		CreditLimit:    card.CreditLimit,
		ClosingDay:     card.ClosingDay,
		PaymentDueDay:  card.PaymentDueDay,
		CashbackRate:   card.CashbackRate,
		CashbackPolicy: card.CashbackPolicy,
		Status:         card.Status,
		CreatedAt:      card.CreatedAt,
		LastUpdatedAt:  card.LastUpdatedAt,
	}
}
