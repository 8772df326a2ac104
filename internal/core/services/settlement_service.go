package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// settlementService pays open invoices from bank accounts, converting across
// currencies at the payment date's rate.
type settlementService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	bankRepo    portsrepo.BankAccountReader
	cardRepo    portsrepo.CardReader
	rates       portssvc.ExchangeRateReaderSvc
}

// NewSettlementService creates the invoice settlement service.
func NewSettlementService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	bankRepo portsrepo.BankAccountReader,
	cardRepo portsrepo.CardReader,
	rates portssvc.ExchangeRateReaderSvc,
	options ...ServiceOption,
) portssvc.SettlementSvc {
	svc := &settlementService{
		invoiceRepo: invoiceRepo,
		bankRepo:    bankRepo,
		cardRepo:    cardRepo,
		rates:       rates,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

// PayInvoice debits the bank account by the invoice amount converted into the
// account currency, marks the invoice paid and records an invoice_payment entry.
// Nothing is written when the rate cannot be resolved or the balance is short.
func (s *settlementService) PayInvoice(ctx context.Context, invoiceID, bankAccountID string, paymentDate time.Time, userID string) (*domain.Settlement, error) {
	day := dateOnly(paymentDate)
	if day.After(s.Today()) {
		return nil, fmt.Errorf("%w: payment date %s is in the future", apperrors.ErrValidation, day.Format(time.DateOnly))
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsOpen() {
		return nil, fmt.Errorf("%w: invoice %s is %s", apperrors.ErrInvalidState, invoice.InvoiceID, invoice.Status)
	}

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, account.BankAccountID)
	}

	card, err := s.cardRepo.FindCardByID(ctx, invoice.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card %s of invoice %s: %w", invoice.CardID, invoice.InvoiceID, err)
	}

	rate, err := s.rates.GetRate(ctx, invoice.CurrencyCode, account.CurrencyCode, &day)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve settlement rate",
			slog.String("invoice_id", invoice.InvoiceID),
			slog.String("from", invoice.CurrencyCode),
			slog.String("to", account.CurrencyCode))
		return nil, err
	}
	debit := accounting.Convert(invoice.Amount, rate)

	if !account.CanDebit(debit) {
		return nil, &apperrors.InsufficientFundsError{
			AccountID:    account.BankAccountID,
			CurrencyCode: account.CurrencyCode,
			Required:     debit,
			Available:    account.Balance,
		}
	}

	now := s.Now()
	cardID, accountID, paidInvoiceID := invoice.CardID, account.BankAccountID, invoice.InvoiceID
	description := fmt.Sprintf("Invoice payment %s - Ref: %s (debited %s %s)",
		card.Name, invoice.MonthReference, debit.StringFixed(2), account.CurrencyCode)
	payment := domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.InvoicePayment,
		Amount:        invoice.Amount,
		CurrencyCode:  invoice.CurrencyCode,
		Date:          day,
		Description:   description,
		CardID:        &cardID,
		BankAccountID: &accountID,
		InvoiceID:     &paidInvoiceID,
		Installments:  1,
		AuditFields:   domain.NewAuditFields(userID, now),
	}

	updated, err := s.invoiceRepo.SettleInvoice(ctx, portsrepo.InvoiceSettlement{
		InvoiceID:     invoice.InvoiceID,
		BankAccountID: account.BankAccountID,
		DebitAmount:   debit,
		Payment:       payment,
		SettledBy:     userID,
		SettledAt:     now,
	})
	if err != nil {
		var shortfall *apperrors.InsufficientFundsError
		if !errors.As(err, &shortfall) && !errors.Is(err, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to settle invoice", slog.String("invoice_id", invoice.InvoiceID))
		}
		return nil, err
	}

	invoice.Status = domain.InvoicePaid
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	s.LogInfo(ctx, "Invoice settled",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("bank_account_id", account.BankAccountID),
		slog.String("debit", debit.StringFixed(2)),
		slog.String("currency", account.CurrencyCode),
		slog.String("rate", rate.String()))
	return &domain.Settlement{
		Invoice:     *invoice,
		Payment:     payment,
		BankAccount: *updated,
		DebitAmount: debit,
		Rate:        rate,
	}, nil
}
