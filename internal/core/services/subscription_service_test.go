package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/core/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	mockSubRepo  *MockSubscriptionRepository
	mockCardRepo *MockCardRepository
	service      portssvc.SubscriptionSvcFacade
	ctx          context.Context
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.mockSubRepo = new(MockSubscriptionRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.service = services.NewSubscriptionService(suite.mockSubRepo, suite.mockCardRepo,
		services.WithClock(fixedClock(time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC))))
	suite.ctx = context.Background()
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_FirstChargeOnStartDate() {
	suite.mockCardRepo.On("FindCardByID", mock.Anything, "card-1").
		Return(&domain.Card{CardID: "card-1", Status: domain.CardActive}, nil).Once()
	suite.mockSubRepo.On("SaveSubscription", mock.Anything, mock.AnythingOfType("domain.Subscription")).Return(nil).Once()

	sub, err := suite.service.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		CardID: "card-1", Name: "Music", Amount: dec("9.99"), Frequency: domain.Monthly, StartDate: "2025-08-31",
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(date(2025, 8, 31), sub.StartDate)
	suite.Equal(sub.StartDate, sub.NextBillingDate)
	suite.Equal(domain.SubscriptionActive, sub.Status)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_UnknownFrequency() {
	_, err := suite.service.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		CardID: "card-1", Name: "Music", Amount: dec("9.99"), Frequency: "weekly", StartDate: "2025-08-01",
	}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_RejectsSubCentAmount() {
	_, err := suite.service.CreateSubscription(suite.ctx, dto.CreateSubscriptionRequest{
		CardID: "card-1", Name: "Music", Amount: dec("9.995"), Frequency: domain.Monthly, StartDate: "2025-08-01",
	}, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "SaveSubscription", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestPauseSubscription() {
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{SubscriptionID: "sub-1", Status: domain.SubscriptionActive}, nil).Once()
	suite.mockSubRepo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", domain.SubscriptionPaused, (*time.Time)(nil), "user-1", mock.Anything).
		Return(nil).Once()

	sub, err := suite.service.PauseSubscription(suite.ctx, "sub-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.SubscriptionPaused, sub.Status)
}

func (suite *SubscriptionServiceTestSuite) TestResumeSubscription_DoesNotBackBill() {
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{SubscriptionID: "sub-1", Status: domain.SubscriptionPaused, NextBillingDate: date(2025, 3, 1)}, nil).Once()
	resumeDay := date(2025, 7, 20)
	suite.mockSubRepo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", domain.SubscriptionActive, &resumeDay, "user-1", mock.Anything).
		Return(nil).Once()

	sub, err := suite.service.ResumeSubscription(suite.ctx, "sub-1", date(2025, 7, 20), "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.SubscriptionActive, sub.Status)
	suite.Equal(resumeDay, sub.NextBillingDate)
}

func (suite *SubscriptionServiceTestSuite) TestResumeSubscription_KeepsLaterDate() {
	later := date(2025, 9, 1)
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{SubscriptionID: "sub-1", Status: domain.SubscriptionPaused, NextBillingDate: later}, nil).Once()
	suite.mockSubRepo.On("UpdateSubscriptionStatus", mock.Anything, "sub-1", domain.SubscriptionActive, &later, "user-1", mock.Anything).
		Return(nil).Once()

	sub, err := suite.service.ResumeSubscription(suite.ctx, "sub-1", date(2025, 7, 20), "user-1")

	suite.Require().NoError(err)
	suite.Equal(later, sub.NextBillingDate)
}

func (suite *SubscriptionServiceTestSuite) TestResumeSubscription_OnlyFromPaused() {
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{SubscriptionID: "sub-1", Status: domain.SubscriptionCanceled}, nil).Once()

	_, err := suite.service.ResumeSubscription(suite.ctx, "sub-1", date(2025, 7, 20), "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *SubscriptionServiceTestSuite) TestCancelSubscription_Idempotent() {
	suite.mockSubRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").
		Return(&domain.Subscription{SubscriptionID: "sub-1", Status: domain.SubscriptionCanceled}, nil).Once()

	sub, err := suite.service.CancelSubscription(suite.ctx, "sub-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.SubscriptionCanceled, sub.Status)
	suite.mockSubRepo.AssertNotCalled(suite.T(), "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
