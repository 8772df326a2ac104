package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubscriptionBillingTestSuite struct {
	suite.Suite
	mockSubRepo  *MockSubscriptionRepository
	mockCardRepo *MockCardRepository
	service      portssvc.SubscriptionBillingSvc
	ctx          context.Context
}

func (suite *SubscriptionBillingTestSuite) SetupTest() {
	suite.mockSubRepo = new(MockSubscriptionRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.service = services.NewSubscriptionBillingService(suite.mockSubRepo, suite.mockCardRepo,
		services.WithClock(fixedClock(date(2024, 4, 1))))
	suite.ctx = context.Background()
}

func TestSubscriptionBillingTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionBillingTestSuite))
}

func streamingSub(id string, next domain.Subscription) domain.Subscription {
	next.SubscriptionID = id
	return next
}

func (suite *SubscriptionBillingTestSuite) activeCard(id string) {
	suite.mockCardRepo.On("FindCardByID", mock.Anything, id).
		Return(&domain.Card{CardID: id, CurrencyCode: "BRL", Status: domain.CardActive}, nil).Once()
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_StaleSubscriptionChargedOnce() {
	sub := streamingSub("sub-1", domain.Subscription{
		CardID:          "card-1",
		Name:            "Streaming",
		Amount:          dec("39.90"),
		Frequency:       domain.Monthly,
		StartDate:       date(2023, 11, 15),
		NextBillingDate: date(2024, 1, 15),
		Status:          domain.SubscriptionActive,
	})
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return([]domain.Subscription{sub}, nil).Once()
	suite.activeCard("card-1")

	var charge domain.Transaction
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-1", mock.AnythingOfType("domain.Transaction"), date(2024, 1, 15), date(2024, 4, 15)).
		Run(func(args mock.Arguments) { charge = args.Get(2).(domain.Transaction) }).
		Return(nil).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Require().NoError(err)
	suite.Require().Len(report.Transactions, 1)
	suite.Empty(report.Failed)
	suite.Equal(domain.SubscriptionPurchase, charge.Type)
	suite.Equal("BRL", charge.CurrencyCode)
	suite.Equal(date(2024, 4, 1), charge.Date)
	suite.Equal("Streaming", charge.Description)
	suite.True(charge.Amount.Equal(dec("39.90")))
	suite.Require().NotNil(charge.CardID)
	suite.Equal("card-1", *charge.CardID)
	suite.Require().NotNil(charge.SubscriptionID)
	suite.Equal("sub-1", *charge.SubscriptionID)
	suite.Nil(charge.InvoiceID)
	suite.NoError(charge.ValidateOwnership())
	suite.mockSubRepo.AssertNumberOfCalls(suite.T(), "RecordSubscriptionCharge", 1)
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_YearlyKeepsStartDay() {
	sub := streamingSub("sub-2", domain.Subscription{
		CardID:          "card-1",
		Name:            "Domain renewal",
		Amount:          dec("12.00"),
		Frequency:       domain.Yearly,
		StartDate:       date(2023, 4, 1),
		NextBillingDate: date(2024, 4, 1),
		Status:          domain.SubscriptionActive,
	})
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return([]domain.Subscription{sub}, nil).Once()
	suite.activeCard("card-1")
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-2", mock.Anything, date(2024, 4, 1), date(2025, 4, 1)).
		Return(nil).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 1)
	suite.mockSubRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_ConcurrentRunIsNotAFailure() {
	sub := streamingSub("sub-1", domain.Subscription{
		CardID: "card-1", Amount: dec("5.00"), Frequency: domain.Monthly,
		StartDate: date(2024, 3, 1), NextBillingDate: date(2024, 4, 1), Status: domain.SubscriptionActive,
	})
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return([]domain.Subscription{sub}, nil).Once()
	suite.activeCard("card-1")
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-1", mock.Anything, date(2024, 4, 1), date(2024, 5, 1)).
		Return(apperrors.ErrConflict).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Require().NoError(err)
	suite.Empty(report.Transactions)
	suite.Empty(report.Failed)
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_FailureDoesNotStopOthers() {
	first := streamingSub("sub-1", domain.Subscription{
		CardID: "card-1", Amount: dec("5.00"), Frequency: domain.Monthly,
		StartDate: date(2024, 3, 1), NextBillingDate: date(2024, 4, 1), Status: domain.SubscriptionActive,
	})
	second := streamingSub("sub-2", domain.Subscription{
		CardID: "card-1", Amount: dec("7.00"), Frequency: domain.Monthly,
		StartDate: date(2024, 3, 1), NextBillingDate: date(2024, 4, 1), Status: domain.SubscriptionActive,
	})
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return([]domain.Subscription{first, second}, nil).Once()
	// The card is loaded once per run.
	suite.activeCard("card-1")
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-1", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("deadlock detected")).Once()
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-2", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 1)
	suite.Require().Len(report.Failed, 1)
	suite.Equal("sub-1", report.Failed[0].SubscriptionID)
	suite.mockCardRepo.AssertNumberOfCalls(suite.T(), "FindCardByID", 1)
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_NothingDue() {
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return([]domain.Subscription{}, nil).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Require().NoError(err)
	suite.NotNil(report.Transactions)
	suite.Empty(report.Transactions)
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_ListFails() {
	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 4, 1)).Return(nil, errors.New("boom")).Once()

	_, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 4, 1))

	suite.Error(err)
}

func (suite *SubscriptionBillingTestSuite) TestRunBillingCycle_ResumedSubscriptionWaitsFullInterval() {
	subService := services.NewSubscriptionService(suite.mockSubRepo, suite.mockCardRepo,
		services.WithClock(fixedClock(date(2024, 6, 28))))
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{
			SubscriptionID:  "sub-1",
			CardID:          "card-1",
			Name:            "Gym",
			Amount:          dec("80.00"),
			Frequency:       domain.Monthly,
			StartDate:       date(2024, 1, 5),
			NextBillingDate: date(2024, 4, 5),
			Status:          domain.SubscriptionPaused,
		}, nil).Once()
	suite.mockSubRepo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", domain.SubscriptionActive, mock.Anything, "user-1", mock.Anything).
		Return(nil).Once()

	resumed, err := subService.ResumeSubscription(suite.ctx, "sub-1", date(2024, 6, 28), "user-1")
	suite.Require().NoError(err)
	suite.Require().Equal(date(2024, 6, 28), resumed.NextBillingDate)

	suite.mockSubRepo.On("ListDueSubscriptions", mock.Anything, date(2024, 6, 28)).Return([]domain.Subscription{*resumed}, nil).Once()
	suite.activeCard("card-1")
	var newNext time.Time
	suite.mockSubRepo.On("RecordSubscriptionCharge", mock.Anything, "sub-1", mock.Anything, date(2024, 6, 28), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { newNext = args.Get(4).(time.Time) }).
		Return(nil).Once()

	report, err := suite.service.RunBillingCycle(suite.ctx, date(2024, 6, 28))

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 1)
	// The start-date anchor (the 5th) must not bring the next charge forward to 07-05.
	suite.Equal(date(2024, 7, 28), newNext)
	suite.True(newNext.After(date(2024, 7, 5)))
	suite.mockSubRepo.AssertExpectations(suite.T())
}
