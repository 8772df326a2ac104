package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// --- Mock BankAccountRepository ---
type MockBankAccountRepository struct {
	mock.Mock
}

var _ portsrepo.BankAccountRepositoryFacade = (*MockBankAccountRepository)(nil)

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) UpdateBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string, now time.Time) error {
	args := m.Called(ctx, bankAccountID, status, userID, now)
	return args.Error(0)
}

func (m *MockBankAccountRepository) PostBalanceEntry(ctx context.Context, bankAccountID string, entry domain.Transaction, delta decimal.Decimal) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID, entry, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

// --- Mock CardRepository ---
type MockCardRepository struct {
	mock.Mock
}

var _ portsrepo.CardRepositoryFacade = (*MockCardRepository)(nil)

func (m *MockCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListActiveCards(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCardStatus(ctx context.Context, cardID string, status domain.CardStatus, userID string, now time.Time) error {
	args := m.Called(ctx, cardID, status, userID, now)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindUnbilledTransactions(ctx context.Context, cardID, currencyCode string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, cardID, currencyCode, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByInvoice(ctx context.Context, invoiceID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByCardAndMonth(ctx context.Context, cardID, monthReference string) (*domain.Invoice, error) {
	args := m.Called(ctx, cardID, monthReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListOpenInvoicesDueBetween(ctx context.Context, from, to time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListCashbackByInvoice(ctx context.Context, invoiceID string) ([]domain.Cashback, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cashback), args.Error(1)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, transactionIDs []string, cashback []domain.Cashback) error {
	args := m.Called(ctx, invoice, transactionIDs, cashback)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SettleInvoice(ctx context.Context, settlement portsrepo.InvoiceSettlement) (*domain.BankAccount, error) {
	args := m.Called(ctx, settlement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

var _ portsrepo.SubscriptionRepositoryFacade = (*MockSubscriptionRepository)(nil)

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListDueSubscriptions(ctx context.Context, referenceDate time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListActiveSubscriptionsBillingBetween(ctx context.Context, from, to time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CountActiveSubscriptionsByCard(ctx context.Context, cardID string) (int, error) {
	args := m.Called(ctx, cardID)
	return args.Int(0), args.Error(1)
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus, nextBillingDate *time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, subscriptionID, status, nextBillingDate, userID, now)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) RecordSubscriptionCharge(ctx context.Context, subscriptionID string, charge domain.Transaction, expectedNext, newNext time.Time) error {
	args := m.Called(ctx, subscriptionID, charge, expectedNext, newNext)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) FindExchangeRateOn(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock providers ---
type MockRateCache struct {
	mock.Mock
}

var _ providers.RateCache = (*MockRateCache)(nil)

func (m *MockRateCache) GetRate(ctx context.Context, key string) (decimal.Decimal, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Bool(1)
}

func (m *MockRateCache) SetRate(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) {
	m.Called(ctx, key, rate, ttl)
}

type MockRateProvider struct {
	mock.Mock
}

var _ providers.RateProvider = (*MockRateProvider)(nil)

func (m *MockRateProvider) FetchRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

var _ providers.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyInvoiceDue(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockNotifier) NotifySubscriptionDue(ctx context.Context, subscription domain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

// --- Mock ExchangeRateReaderSvc ---
type MockRateReader struct {
	mock.Mock
}

var _ portssvc.ExchangeRateReaderSvc = (*MockRateReader)(nil)

func (m *MockRateReader) GetRate(ctx context.Context, fromCode, toCode string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
