package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// cardService implements the CardSvcFacade interface
type cardService struct {
	BaseService
	cardRepo         portsrepo.CardRepositoryFacade
	bankRepo         portsrepo.BankAccountReader
	subscriptionRepo portsrepo.SubscriptionReader
	txnRepo          portsrepo.TransactionWriter
}

// NewCardService creates a new card service
func NewCardService(
	cardRepo portsrepo.CardRepositoryFacade,
	bankRepo portsrepo.BankAccountReader,
	subscriptionRepo portsrepo.SubscriptionReader,
	txnRepo portsrepo.TransactionWriter,
	options ...ServiceOption,
) portssvc.CardSvcFacade {
	svc := &cardService{
		cardRepo:         cardRepo,
		bankRepo:         bankRepo,
		subscriptionRepo: subscriptionRepo,
		txnRepo:          txnRepo,
	}
	svc.apply(options)
	return svc
}

// Ensure cardService implements the CardSvcFacade interface
var _ portssvc.CardSvcFacade = (*cardService)(nil)

func (s *cardService) CreateCard(ctx context.Context, req dto.CreateCardRequest, userID string) (*domain.Card, error) {
	account, err := s.bankRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, account.BankAccountID)
	}

	policy := req.CashbackPolicy
	if policy == "" {
		policy = domain.CashbackPerTransaction
	}
	card := domain.Card{
		CardID:         uuid.NewString(),
		UserID:         userID,
		BankAccountID:  account.BankAccountID,
		Name:           req.Name,
		Brand:          req.Brand,
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		CreditLimit:    req.CreditLimit,
		ClosingDay:     req.ClosingDay,
		PaymentDueDay:  req.PaymentDueDay,
		CashbackRate:   req.CashbackRate,
		CashbackPolicy: policy,
		Status:         domain.CardActive,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		s.LogError(ctx, err, "Failed to save card", slog.String("card_id", card.CardID))
		return nil, err
	}

	s.LogInfo(ctx, "Card created successfully",
		slog.String("card_id", card.CardID),
		slog.String("bank_account_id", card.BankAccountID),
		slog.Int("closing_day", card.ClosingDay))
	return &card, nil
}

func (s *cardService) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find card", slog.String("card_id", cardID))
		}
		return nil, err
	}
	return card, nil
}

func (s *cardService) ActivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.IsActive() {
		return card, nil
	}
	account, err := s.bankRepo.FindBankAccountByID(ctx, card.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, account.BankAccountID)
	}
	return s.setStatus(ctx, card, domain.CardActive, userID)
}

func (s *cardService) DeactivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return card, nil
	}
	count, err := s.subscriptionRepo.CountActiveSubscriptionsByCard(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions of card %s: %w", cardID, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: card %s still has %d active subscriptions", apperrors.ErrInvalidState, cardID, count)
	}
	return s.setStatus(ctx, card, domain.CardInactive, userID)
}

func (s *cardService) setStatus(ctx context.Context, card *domain.Card, status domain.CardStatus, userID string) (*domain.Card, error) {
	now := s.Now()
	if err := s.cardRepo.UpdateCardStatus(ctx, card.CardID, status, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update card status", slog.String("card_id", card.CardID))
		return nil, err
	}
	card.Status = status
	card.LastUpdatedAt = now
	card.LastUpdatedBy = userID
	s.LogInfo(ctx, "Card status changed", slog.String("card_id", card.CardID), slog.String("status", string(status)))
	return card, nil
}

// RecordPurchase stores an unbilled card_purchase. It is picked up by the invoice
// of the closing period its date falls into.
func (s *cardService) RecordPurchase(ctx context.Context, cardID string, req dto.CardPurchaseRequest, userID string) (*domain.Transaction, error) {
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	date, err := dto.ParseDate(req.Date, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, fmt.Errorf("%w: card %s is inactive", apperrors.ErrInvalidState, cardID)
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}
	owner := card.CardID
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          domain.CardPurchase,
		Amount:        req.Amount,
		CurrencyCode:  card.CurrencyCode,
		Date:          date,
		Description:   req.Description,
		CardID:        &owner,
		Installments:  installments,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save card purchase", slog.String("card_id", cardID))
		return nil, err
	}

	s.LogInfo(ctx, "Card purchase recorded",
		slog.String("card_id", cardID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}
