package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GenerateInvoice(ctx context.Context, card domain.Card, referenceDate time.Time, force bool) (*domain.InvoiceOutcome, error) {
	args := m.Called(ctx, card, referenceDate, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceOutcome), args.Error(1)
}
func (m *MockInvoiceService) GenerateInvoices(ctx context.Context, referenceDate time.Time, force bool) (*domain.GenerationReport, error) {
	args := m.Called(ctx, referenceDate, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationReport), args.Error(1)
}
func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListInvoiceTransactions(ctx context.Context, invoiceID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockInvoiceService) ListInvoiceCashback(ctx context.Context, invoiceID string) ([]domain.Cashback, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cashback), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) PayInvoice(ctx context.Context, invoiceID, bankAccountID string, paymentDate time.Time, userID string) (*domain.Settlement, error) {
	args := m.Called(ctx, invoiceID, bankAccountID, paymentDate, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

var _ portssvc.SettlementSvc = (*MockSettlementService)(nil)

// --- Mock SubscriptionBillingService ---
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) RunBillingCycle(ctx context.Context, referenceDate time.Time) (*domain.BillingRunReport, error) {
	args := m.Called(ctx, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRunReport), args.Error(1)
}

var _ portssvc.SubscriptionBillingSvc = (*MockBillingService)(nil)

// --- Mock DueNotificationService ---
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyInvoicesDue(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}
func (m *MockNotificationService) NotifySubscriptionsDue(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}

var _ portssvc.DueNotificationSvc = (*MockNotificationService)(nil)

// --- Mock BankAccountService ---
type MockBankAccountService struct {
	mock.Mock
}

func (m *MockBankAccountService) account(args mock.Arguments) (*domain.BankAccount, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankAccountService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return m.account(m.Called(ctx, bankAccountID))
}
func (m *MockBankAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	return m.account(m.Called(ctx, req, userID))
}
func (m *MockBankAccountService) SetBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string) (*domain.BankAccount, error) {
	return m.account(m.Called(ctx, bankAccountID, status, userID))
}
func (m *MockBankAccountService) Deposit(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error) {
	return m.account(m.Called(ctx, bankAccountID, req, userID))
}
func (m *MockBankAccountService) Withdraw(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error) {
	return m.account(m.Called(ctx, bankAccountID, req, userID))
}

var _ portssvc.BankAccountSvcFacade = (*MockBankAccountService)(nil)

// --- Mock CardService ---
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) card(args mock.Arguments) (*domain.Card, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardService) CreateCard(ctx context.Context, req dto.CreateCardRequest, userID string) (*domain.Card, error) {
	return m.card(m.Called(ctx, req, userID))
}
func (m *MockCardService) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	return m.card(m.Called(ctx, cardID))
}
func (m *MockCardService) ActivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error) {
	return m.card(m.Called(ctx, cardID, userID))
}
func (m *MockCardService) DeactivateCard(ctx context.Context, cardID string, userID string) (*domain.Card, error) {
	return m.card(m.Called(ctx, cardID, userID))
}
func (m *MockCardService) RecordPurchase(ctx context.Context, cardID string, req dto.CardPurchaseRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, cardID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.CardSvcFacade = (*MockCardService)(nil)

// --- Mock SubscriptionService ---
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) sub(args mock.Arguments) (*domain.Subscription, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest, userID string) (*domain.Subscription, error) {
	return m.sub(m.Called(ctx, req, userID))
}
func (m *MockSubscriptionService) GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return m.sub(m.Called(ctx, subscriptionID))
}
func (m *MockSubscriptionService) PauseSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error) {
	return m.sub(m.Called(ctx, subscriptionID, userID))
}
func (m *MockSubscriptionService) ResumeSubscription(ctx context.Context, subscriptionID string, referenceDate time.Time, userID string) (*domain.Subscription, error) {
	return m.sub(m.Called(ctx, subscriptionID, referenceDate, userID))
}
func (m *MockSubscriptionService) CancelSubscription(ctx context.Context, subscriptionID string, userID string) (*domain.Subscription, error) {
	return m.sub(m.Called(ctx, subscriptionID, userID))
}

var _ portssvc.SubscriptionSvcFacade = (*MockSubscriptionService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCode, toCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)
