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
	"github.com/SscSPs/finance_ledger/internal/utils/billingcycle"
	"github.com/google/uuid"
)

// invoiceService closes card billing periods into invoices
type invoiceService struct {
	BaseService
	cardRepo    portsrepo.CardReader
	txnRepo     portsrepo.TransactionReader
	invoiceRepo portsrepo.InvoiceRepositoryFacade
}

// NewInvoiceService creates the invoice generator and reader.
func NewInvoiceService(
	cardRepo portsrepo.CardReader,
	txnRepo portsrepo.TransactionReader,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	options ...ServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		cardRepo:    cardRepo,
		txnRepo:     txnRepo,
		invoiceRepo: invoiceRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) skip(ctx context.Context, outcome *domain.InvoiceOutcome, reason domain.SkipReason) *domain.InvoiceOutcome {
	outcome.SkipReason = reason
	s.LogInfo(ctx, "Invoice generation skipped",
		slog.String("card_id", outcome.CardID),
		slog.String("month_reference", outcome.MonthReference),
		slog.String("reason", string(reason)))
	return outcome
}

// GenerateInvoice closes the card's current period into an invoice, at most once per
// (card, month reference).
func (s *invoiceService) GenerateInvoice(ctx context.Context, card domain.Card, referenceDate time.Time, force bool) (*domain.InvoiceOutcome, error) {
	ref := dateOnly(referenceDate)
	outcome := &domain.InvoiceOutcome{CardID: card.CardID}

	period, err := billingcycle.ResolveClosingPeriod(card.ClosingDay, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: card %s: %v", apperrors.ErrValidation, card.CardID, err)
	}
	outcome.MonthReference = period.MonthReference

	if !card.IsActive() {
		return s.skip(ctx, outcome, domain.SkipCardInactive), nil
	}
	if !force && !billingcycle.InGenerationWindow(period, ref) {
		return s.skip(ctx, outcome, domain.SkipNotClosingDay), nil
	}

	// Cheap early exit; the unique constraint is what actually guarantees one invoice.
	if _, err := s.invoiceRepo.FindInvoiceByCardAndMonth(ctx, card.CardID, period.MonthReference); err == nil {
		return s.skip(ctx, outcome, domain.SkipInvoiceExists), nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing invoice for card %s: %w", card.CardID, err)
	}

	txns, err := s.txnRepo.FindUnbilledTransactions(ctx, card.CardID, card.CurrencyCode, period.PeriodStart, period.ClosingDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load unbilled transactions for card %s: %w", card.CardID, err)
	}
	if len(txns) == 0 {
		return s.skip(ctx, outcome, domain.SkipNoTransactions), nil
	}

	total := accounting.SumAmounts(txns)
	if !total.IsPositive() && !force {
		return s.skip(ctx, outcome, domain.SkipNonPositiveTotal), nil
	}

	now := s.Now()
	invoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		CardID:         card.CardID,
		MonthReference: period.MonthReference,
		Amount:         total,
		CurrencyCode:   card.CurrencyCode,
		CashbackRate:   card.CashbackRate,
		ClosingDate:    period.ClosingDate,
		DueDate:        billingcycle.DueDate(period.ClosingDate, card.PaymentDueDay),
		Status:         domain.InvoiceOpen,
		AuditFields:    domain.NewAuditFields(domain.SystemActor, now),
	}

	var cashback []domain.Cashback
	if card.EarnsCashback() {
		amount, err := accounting.CalculateCashback(card.CashbackPolicy, *card.CashbackRate, txns, total)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", card.CardID, err)
		}
		if amount.IsPositive() {
			cashback = append(cashback, domain.Cashback{
				CashbackID:      uuid.NewString(),
				CardID:          card.CardID,
				InvoiceID:       invoice.InvoiceID,
				Amount:          amount,
				CurrencyCode:    card.CurrencyCode,
				CalculationDate: period.ClosingDate,
				AuditFields:     domain.NewAuditFields(domain.SystemActor, now),
			})
		}
	}

	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.TransactionID
	}

	if err := s.invoiceRepo.CreateInvoice(ctx, invoice, ids, cashback); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race to a concurrent run.
			return s.skip(ctx, outcome, domain.SkipInvoiceExists), nil
		}
		return nil, fmt.Errorf("failed to create invoice for card %s: %w", card.CardID, err)
	}

	outcome.Invoice = &invoice
	if len(cashback) > 0 {
		outcome.Cashback = &cashback[0]
	}
	s.LogInfo(ctx, "Invoice generated",
		slog.String("card_id", card.CardID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("month_reference", invoice.MonthReference),
		slog.String("amount", invoice.Amount.String()),
		slog.Int("transactions", len(ids)))
	return outcome, nil
}

// GenerateInvoices runs the generator over every active card.
func (s *invoiceService) GenerateInvoices(ctx context.Context, referenceDate time.Time, force bool) (*domain.GenerationReport, error) {
	cards, err := s.cardRepo.ListActiveCards(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active cards")
		return nil, fmt.Errorf("failed to list active cards: %w", err)
	}

	report := &domain.GenerationReport{
		Created: []domain.InvoiceOutcome{},
		Skipped: []domain.InvoiceOutcome{},
		Failed:  []domain.InvoiceFailure{},
	}
	for _, card := range cards {
		outcome, err := s.GenerateInvoice(ctx, card, referenceDate, force)
		if err != nil {
			s.LogError(ctx, err, "Invoice generation failed", slog.String("card_id", card.CardID))
			report.Failed = append(report.Failed, domain.InvoiceFailure{CardID: card.CardID, Error: err.Error()})
			continue
		}
		if outcome.Created() {
			report.Created = append(report.Created, *outcome)
		} else {
			report.Skipped = append(report.Skipped, *outcome)
		}
	}

	s.LogInfo(ctx, "Invoice generation run finished",
		slog.String("reference_date", dateOnly(referenceDate).Format(time.DateOnly)),
		slog.Bool("force", force),
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)))
	return report, nil
}

// GetInvoice retrieves an invoice by ID.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

// ListInvoiceTransactions returns the transactions billed on the invoice.
func (s *invoiceService) ListInvoiceTransactions(ctx context.Context, invoiceID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactionsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of invoice %s: %w", invoiceID, err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// ListInvoiceCashback returns the cashback rows of the invoice.
func (s *invoiceService) ListInvoiceCashback(ctx context.Context, invoiceID string) ([]domain.Cashback, error) {
	rows, err := s.invoiceRepo.ListCashbackByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cashback of invoice %s: %w", invoiceID, err)
	}
	if rows == nil {
		return []domain.Cashback{}, nil
	}
	return rows, nil
}
