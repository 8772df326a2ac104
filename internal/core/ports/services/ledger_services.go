package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/dto"
)

// BankAccountReaderSvc defines read operations for bank accounts
type BankAccountReaderSvc interface {
	GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
}

// BankAccountWriterSvc defines write operations for bank accounts
type BankAccountWriterSvc interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	SetBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string) (*domain.BankAccount, error)

	// Deposit credits the account and records a bank_deposit entry.
	Deposit(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error)

	// Withdraw debits the account and records a bank_withdrawal entry. It fails with
	// an InsufficientFundsError, before any mutation, if the balance does not cover it.
	Withdraw(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error)
}

// BankAccountSvcFacade combines all bank account-related service interfaces
type BankAccountSvcFacade interface {
	BankAccountReaderSvc
	BankAccountWriterSvc
}

// CardSvcFacade manages cards and records purchases on them
type CardSvcFacade interface {
	CreateCard(ctx context.Context, req dto.CreateCardRequest, userID string) (*domain.Card, error)
	GetCard(ctx context.Context, cardID string) (*domain.Card, error)

	// ActivateCard fails with apperrors.ErrInvalidState when the card's bank account is inactive.
	ActivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error)

	// DeactivateCard fails with apperrors.ErrInvalidState while active subscriptions use the card.
	DeactivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error)

	// RecordPurchase stores a card_purchase in the card's currency.
	RecordPurchase(ctx context.Context, cardID string, req dto.CardPurchaseRequest, userID string) (*domain.Transaction, error)
}

// SubscriptionSvcFacade manages the subscription lifecycle
type SubscriptionSvcFacade interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest, userID string) (*domain.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	PauseSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error)

	// ResumeSubscription reactivates a paused subscription; its next billing date
	// becomes referenceDate unless the stored date is later.
	ResumeSubscription(ctx context.Context, subscriptionID string, referenceDate time.Time, userID string) (*domain.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error)
}
