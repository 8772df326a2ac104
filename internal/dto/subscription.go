package dto

import (
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSubscriptionRequest defines a recurring charge on a card.
type CreateSubscriptionRequest struct {
	CardID    string           `json:"cardID" binding:"required"`
	Name      string           `json:"name" binding:"required"`
	Category  string           `json:"category"`
	Amount    decimal.Decimal  `json:"amount" binding:"required,gt=0"`
	Frequency domain.Frequency `json:"frequency" binding:"required,oneof=monthly yearly"`
	StartDate string           `json:"startDate" binding:"required,datetime=2006-01-02"`
}

// SubscriptionResponse defines the data returned for a subscription.
type SubscriptionResponse struct {
	SubscriptionID  string                    `json:"subscriptionID"`
	CardID          string                    `json:"cardID"`
	Name            string                    `json:"name"`
	Category        string                    `json:"category"`
	Amount          decimal.Decimal           `json:"amount"`
	Frequency       domain.Frequency          `json:"frequency"`
	StartDate       string                    `json:"startDate"`
	NextBillingDate string                    `json:"nextBillingDate"`
	Status          domain.SubscriptionStatus `json:"status"`
	LastUpdatedAt   time.Time                 `json:"lastUpdatedAt"`
}

// ToSubscriptionResponse converts a domain.Subscription to SubscriptionResponse DTO
func ToSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:  sub.SubscriptionID,
		CardID:          sub.CardID,
		Name:            sub.Name,
		Category:        sub.Category,
		Amount:          sub.Amount,
		Frequency:       sub.Frequency,
		StartDate:       FormatDate(sub.StartDate),
		NextBillingDate: FormatDate(sub.NextBillingDate),
		Status:          sub.Status,
		LastUpdatedAt:   sub.LastUpdatedAt,
	}
}

// ResumeSubscriptionRequest resumes a paused subscription. Date is the reference
// date for the next charge and defaults to today.
type ResumeSubscriptionRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
