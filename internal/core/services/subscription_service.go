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
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// subscriptionService implements the SubscriptionSvcFacade interface
type subscriptionService struct {
	BaseService
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	cardRepo         portsrepo.CardReader
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptionRepo portsrepo.SubscriptionRepositoryFacade, cardRepo portsrepo.CardReader, options ...ServiceOption) portssvc.SubscriptionSvcFacade {
	svc := &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		cardRepo:         cardRepo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

// CreateSubscription registers a recurring charge. The first charge is due on the start date.
func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest, userID string) (*domain.Subscription, error) {
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	frequency, err := domain.ParseFrequency(string(req.Frequency))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	start, err := dto.ParseDate(req.StartDate, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, req.StartDate)
	}

	card, err := s.cardRepo.FindCardByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, fmt.Errorf("%w: card %s is inactive", apperrors.ErrInvalidState, card.CardID)
	}

	sub := domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		CardID:          card.CardID,
		Name:            req.Name,
		Category:        req.Category,
		Amount:          req.Amount,
		Frequency:       frequency,
		StartDate:       start,
		NextBillingDate: start,
		Status:          domain.SubscriptionActive,
		AuditFields:     domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.subscriptionRepo.SaveSubscription(ctx, sub); err != nil {
		s.LogError(ctx, err, "Failed to save subscription", slog.String("subscription_id", sub.SubscriptionID))
		return nil, err
	}

	s.LogInfo(ctx, "Subscription created successfully",
		slog.String("subscription_id", sub.SubscriptionID),
		slog.String("card_id", sub.CardID),
		slog.String("frequency", string(sub.Frequency)))
	return &sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.FindSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find subscription", slog.String("subscription_id", subscriptionID))
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) PauseSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionActive {
		return nil, fmt.Errorf("%w: subscription %s is %s", apperrors.ErrInvalidState, subscriptionID, sub.Status)
	}
	return s.transition(ctx, sub, domain.SubscriptionPaused, nil, userID)
}

func (s *subscriptionService) ResumeSubscription(ctx context.Context, subscriptionID string, referenceDate time.Time, userID string) (*domain.Subscription, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != domain.SubscriptionPaused {
		return nil, fmt.Errorf("%w: subscription %s is %s", apperrors.ErrInvalidState, subscriptionID, sub.Status)
	}

	// Periods missed while paused are not back-billed.
	next := dateOnly(referenceDate)
	if sub.NextBillingDate.After(next) {
		next = sub.NextBillingDate
	}
	return s.transition(ctx, sub, domain.SubscriptionActive, &next, userID)
}

// CancelSubscription is terminal. Canceling twice is a no-op.
func (s *subscriptionService) CancelSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error) {
	sub, err := s.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == domain.SubscriptionCanceled {
		return sub, nil
	}
	return s.transition(ctx, sub, domain.SubscriptionCanceled, nil, userID)
}

func (s *subscriptionService) transition(ctx context.Context, sub *domain.Subscription, status domain.SubscriptionStatus, next *time.Time, userID string) (*domain.Subscription, error) {
	now := s.Now()
	if err := s.subscriptionRepo.UpdateSubscriptionStatus(ctx, sub.SubscriptionID, status, next, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update subscription status", slog.String("subscription_id", sub.SubscriptionID))
		return nil, err
	}
	sub.Status = status
	if next != nil {
		sub.NextBillingDate = *next
	}
	sub.LastUpdatedAt = now
	sub.LastUpdatedBy = userID
	s.LogInfo(ctx, "Subscription status changed",
		slog.String("subscription_id", sub.SubscriptionID),
		slog.String("status", string(status)))
	return sub, nil
}
