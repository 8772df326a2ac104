package accounting

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places stored for monetary amounts.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to cents, which is half-up for the
// non-negative amounts cashback and conversions produce.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ValidateAmount accepts positive amounts expressible in whole cents. Extra places
// would be silently rounded away by the NUMERIC(19, 2) columns.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if !d.Equal(RoundMoney(d)) {
		return fmt.Errorf("amount %s has more than %d decimal places", d, MoneyPlaces)
	}
	return nil
}

// SumAmounts totals the amounts of the given transactions.
func SumAmounts(transactions []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range transactions {
		total = total.Add(txn.Amount)
	}
	return total
}

// CalculateCashback computes the cashback earned by an invoice.
// Under the per-transaction policy only purchases earn cashback; payments and
// other entries are skipped. Rounding happens once, on the final sum.
func CalculateCashback(policy domain.CashbackPolicy, ratePercent decimal.Decimal, transactions []domain.Transaction, invoiceTotal decimal.Decimal) (decimal.Decimal, error) {
	if !ratePercent.IsPositive() {
		return decimal.Zero, nil
	}

	var raw decimal.Decimal
	switch policy {
	case domain.CashbackPerTransaction:
		raw = decimal.Zero
		for _, txn := range transactions {
			if txn.Type.EarnsCashback() {
				raw = raw.Add(txn.Amount.Mul(ratePercent).Div(hundred))
			}
		}
	case domain.CashbackPerInvoice:
		raw = invoiceTotal.Mul(ratePercent).Div(hundred)
	default:
		return decimal.Zero, fmt.Errorf("unknown cashback policy '%s'", policy)
	}
	return RoundMoney(raw), nil
}

// Convert multiplies amount by rate and rounds the result to cents.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(rate))
}
