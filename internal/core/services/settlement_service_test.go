package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockBankRepo    *MockBankAccountRepository
	mockCardRepo    *MockCardRepository
	mockRates       *MockRateReader
	service         portssvc.SettlementSvc
	ctx             context.Context
	now             time.Time
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockBankRepo = new(MockBankAccountRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.mockRates = new(MockRateReader)
	suite.now = time.Date(2025, 7, 20, 14, 30, 0, 0, time.UTC)
	suite.service = services.NewSettlementService(suite.mockInvoiceRepo, suite.mockBankRepo, suite.mockCardRepo, suite.mockRates,
		services.WithClock(fixedClock(suite.now)))
	suite.ctx = context.Background()
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}

func (suite *SettlementServiceTestSuite) openInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:      "inv-1",
		CardID:         "card-1",
		MonthReference: "2025-07",
		Amount:         dec("100.00"),
		CurrencyCode:   "USD",
		Status:         domain.InvoiceOpen,
	}
}

func (suite *SettlementServiceTestSuite) eurAccount(balance string) *domain.BankAccount {
	return &domain.BankAccount{
		BankAccountID: "acc-eur",
		CurrencyCode:  "EUR",
		Balance:       dec(balance),
		Status:        domain.BankAccountActive,
	}
}

func (suite *SettlementServiceTestSuite) expectLookups(invoice *domain.Invoice, account *domain.BankAccount) {
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, account.BankAccountID).Return(account, nil).Once()
	suite.mockCardRepo.On("FindCardByID", mock.Anything, invoice.CardID).Return(&domain.Card{CardID: invoice.CardID, Name: "Travel"}, nil).Once()
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_ConvertsAtPaymentDate() {
	invoice := suite.openInvoice()
	account := suite.eurAccount("500.00")
	suite.expectLookups(invoice, account)
	paymentDay := date(2025, 7, 15)
	suite.mockRates.On("GetRate", mock.Anything, "USD", "EUR", &paymentDay).Return(dec("0.90"), nil).Once()

	var settled portsrepo.InvoiceSettlement
	suite.mockInvoiceRepo.On("SettleInvoice", mock.Anything, mock.AnythingOfType("repositories.InvoiceSettlement")).
		Run(func(args mock.Arguments) { settled = args.Get(1).(portsrepo.InvoiceSettlement) }).
		Return(&domain.BankAccount{BankAccountID: "acc-eur", CurrencyCode: "EUR", Balance: dec("410.00"), Status: domain.BankAccountActive}, nil).Once()

	result, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC), "user-1")

	suite.Require().NoError(err)
	suite.True(result.DebitAmount.Equal(dec("90.00")), "got %s", result.DebitAmount)
	suite.True(settled.DebitAmount.Equal(dec("90.00")))
	suite.True(result.BankAccount.Balance.Equal(dec("410.00")))
	suite.Equal(domain.InvoicePaid, result.Invoice.Status)

	payment := settled.Payment
	suite.Equal(domain.InvoicePayment, payment.Type)
	suite.True(payment.Amount.Equal(dec("100.00")))
	suite.Equal("USD", payment.CurrencyCode)
	suite.Equal(paymentDay, payment.Date)
	suite.Equal("Invoice payment Travel - Ref: 2025-07 (debited 90.00 EUR)", payment.Description)
	suite.NoError(payment.ValidateOwnership())
	suite.Equal("user-1", settled.SettledBy)
	suite.Equal(suite.now, settled.SettledAt)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_RoundsDebitHalfUp() {
	invoice := suite.openInvoice()
	invoice.Amount = dec("33.33")
	account := suite.eurAccount("100.00")
	suite.expectLookups(invoice, account)
	suite.mockRates.On("GetRate", mock.Anything, "USD", "EUR", mock.Anything).Return(dec("0.915"), nil).Once()
	suite.mockInvoiceRepo.On("SettleInvoice", mock.Anything, mock.Anything).Return(account, nil).Once()

	result, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.Require().NoError(err)
	// 33.33 * 0.915 = 30.49695
	suite.Equal("30.50", result.DebitAmount.StringFixed(2))
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_InsufficientFunds() {
	invoice := suite.openInvoice()
	account := suite.eurAccount("50.00")
	suite.expectLookups(invoice, account)
	suite.mockRates.On("GetRate", mock.Anything, "USD", "EUR", mock.Anything).Return(dec("0.90"), nil).Once()

	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	var shortfall *apperrors.InsufficientFundsError
	suite.Require().True(errors.As(err, &shortfall))
	suite.True(shortfall.Shortfall().Equal(dec("40.00")))
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SettleInvoice", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_RateUnavailableWritesNothing() {
	invoice := suite.openInvoice()
	account := suite.eurAccount("500.00")
	suite.expectLookups(invoice, account)
	suite.mockRates.On("GetRate", mock.Anything, "USD", "EUR", mock.Anything).
		Return(decimal.Zero, fmt.Errorf("%w: provider timeout", apperrors.ErrRateUnavailable)).Once()

	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SettleInvoice", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_AlreadyPaid() {
	invoice := suite.openInvoice()
	invoice.Status = domain.InvoicePaid
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, "inv-1").Return(invoice, nil).Once()

	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_InactiveAccount() {
	invoice := suite.openInvoice()
	account := suite.eurAccount("500.00")
	account.Status = domain.BankAccountInactive
	suite.mockInvoiceRepo.On("FindInvoiceByID", mock.Anything, "inv-1").Return(invoice, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, "acc-eur").Return(account, nil).Once()

	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_FutureDateRejected() {
	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 21), "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPayInvoice_LostRaceReportsInvalidState() {
	invoice := suite.openInvoice()
	account := suite.eurAccount("500.00")
	suite.expectLookups(invoice, account)
	suite.mockRates.On("GetRate", mock.Anything, "USD", "EUR", mock.Anything).Return(dec("0.90"), nil).Once()
	suite.mockInvoiceRepo.On("SettleInvoice", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: invoice inv-1 is paid", apperrors.ErrInvalidState)).Once()

	_, err := suite.service.PayInvoice(suite.ctx, "inv-1", "acc-eur", date(2025, 7, 15), "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}
