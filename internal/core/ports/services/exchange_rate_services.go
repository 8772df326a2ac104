package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc resolves conversion rates
type ExchangeRateReaderSvc interface {
	// GetRate resolves the rate from one currency to another. A nil date means the
	// latest rate. Same-currency lookups return exactly 1.
	GetRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error)
}

// CurrencyConverterSvc converts amounts between currencies
type CurrencyConverterSvc interface {
	// Convert multiplies amount by the resolved rate and rounds to cents. It fails
	// with apperrors.ErrRateUnavailable rather than guess a rate.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date *time.Time) (decimal.Decimal, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	CurrencyConverterSvc
}
