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
	"github.com/SscSPs/finance_ledger/internal/utils/billingcycle"
	"github.com/google/uuid"
)

// subscriptionBillingService charges due subscriptions once per run and moves
// them past the reference date.
type subscriptionBillingService struct {
	BaseService
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	cardRepo         portsrepo.CardReader
}

// NewSubscriptionBillingService creates the subscription billing driver.
func NewSubscriptionBillingService(subscriptionRepo portsrepo.SubscriptionRepositoryFacade, cardRepo portsrepo.CardReader, options ...ServiceOption) portssvc.SubscriptionBillingSvc {
	svc := &subscriptionBillingService{
		subscriptionRepo: subscriptionRepo,
		cardRepo:         cardRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SubscriptionBillingSvc = (*subscriptionBillingService)(nil)

// RunBillingCycle emits one subscription_purchase per due subscription, however
// many periods it is behind, and advances next_billing_date strictly past referenceDate.
func (s *subscriptionBillingService) RunBillingCycle(ctx context.Context, referenceDate time.Time) (*domain.BillingRunReport, error) {
	ref := dateOnly(referenceDate)

	due, err := s.subscriptionRepo.ListDueSubscriptions(ctx, ref)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due subscriptions")
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	report := &domain.BillingRunReport{
		Transactions: []domain.Transaction{},
		Failed:       []domain.SubscriptionFailure{},
	}
	cards := make(map[string]*domain.Card)

	for _, sub := range due {
		charge, err := s.bill(ctx, sub, ref, cards)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				s.LogInfo(ctx, "Subscription already billed by another run", slog.String("subscription_id", sub.SubscriptionID))
				continue
			}
			s.LogError(ctx, err, "Subscription billing failed", slog.String("subscription_id", sub.SubscriptionID))
			report.Failed = append(report.Failed, domain.SubscriptionFailure{SubscriptionID: sub.SubscriptionID, Error: err.Error()})
			continue
		}
		if charge != nil {
			report.Transactions = append(report.Transactions, *charge)
		}
	}

	s.LogInfo(ctx, "Subscription billing run finished",
		slog.String("reference_date", ref.Format(time.DateOnly)),
		slog.Int("due", len(due)),
		slog.Int("charged", len(report.Transactions)),
		slog.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *subscriptionBillingService) bill(ctx context.Context, sub domain.Subscription, ref time.Time, cards map[string]*domain.Card) (*domain.Transaction, error) {
	card, ok := cards[sub.CardID]
	if !ok {
		found, err := s.cardRepo.FindCardByID(ctx, sub.CardID)
		if err != nil {
			return nil, fmt.Errorf("failed to load card %s: %w", sub.CardID, err)
		}
		card = found
		cards[sub.CardID] = card
	}
	if !card.IsActive() {
		s.LogInfo(ctx, "Subscription skipped, card inactive",
			slog.String("subscription_id", sub.SubscriptionID), slog.String("card_id", card.CardID))
		return nil, nil
	}

	next, err := billingcycle.NextBillingDate(sub.NextBillingDate, sub.StartDate.Day(), sub.Frequency, ref)
	if err != nil {
		return nil, err
	}

	cardID, subscriptionID := card.CardID, sub.SubscriptionID
	charge := domain.Transaction{
		TransactionID:  uuid.NewString(),
		Type:           domain.SubscriptionPurchase,
		Amount:         sub.Amount,
		CurrencyCode:   card.CurrencyCode,
		Date:           ref,
		Description:    sub.Name,
		CardID:         &cardID,
		SubscriptionID: &subscriptionID,
		Installments:   1,
		AuditFields:    domain.NewAuditFields(domain.SystemActor, s.Now()),
	}

	if err := s.subscriptionRepo.RecordSubscriptionCharge(ctx, sub.SubscriptionID, charge, sub.NextBillingDate, next); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Subscription charged",
		slog.String("subscription_id", sub.SubscriptionID),
		slog.String("transaction_id", charge.TransactionID),
		slog.String("next_billing_date", next.Format(time.DateOnly)))
	return &charge, nil
}
