package dto

import "github.com/shopspring/decimal"

// ExchangeRateQuery defines the optional query parameters of a rate lookup.
type ExchangeRateQuery struct {
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"` // Latest rate when empty
	Amount string `form:"amount" binding:"omitempty,numeric"`           // Optional amount to convert
}

// ExchangeRateResponse defines the structure for API responses containing a resolved rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string           `json:"fromCurrencyCode"`
	ToCurrencyCode   string           `json:"toCurrencyCode"`
	Date             string           `json:"date,omitempty"`
	Rate             decimal.Decimal  `json:"rate"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	ConvertedAmount  *decimal.Decimal `json:"convertedAmount,omitempty"`
}
