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
	"github.com/shopspring/decimal"
)

// bankAccountService implements the BankAccountSvcFacade interface
type bankAccountService struct {
	BaseService
	bankRepo portsrepo.BankAccountRepositoryFacade
}

// NewBankAccountService creates a new bank account service
func NewBankAccountService(bankRepo portsrepo.BankAccountRepositoryFacade, options ...ServiceOption) portssvc.BankAccountSvcFacade {
	svc := &bankAccountService{bankRepo: bankRepo}
	svc.apply(options)
	return svc
}

// Ensure bankAccountService implements the BankAccountSvcFacade interface
var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

func (s *bankAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	account := domain.BankAccount{
		BankAccountID: uuid.NewString(),
		UserID:        userID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Balance:       decimal.Zero,
		Status:        domain.BankAccountActive,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}

	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save bank account", slog.String("bank_account_id", account.BankAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Bank account created successfully",
		slog.String("bank_account_id", account.BankAccountID),
		slog.String("currency", account.CurrencyCode))
	return &account, nil
}

func (s *bankAccountService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *bankAccountService) SetBankAccountStatus(ctx context.Context, bankAccountID string, status domain.BankAccountStatus, userID string) (*domain.BankAccount, error) {
	if _, err := domain.ParseBankAccountStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}

	now := s.Now()
	if err := s.bankRepo.UpdateBankAccountStatus(ctx, bankAccountID, status, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update bank account status", slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	account.Status = status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	s.LogInfo(ctx, "Bank account status changed",
		slog.String("bank_account_id", bankAccountID),
		slog.String("status", string(status)))
	return account, nil
}

// Deposit credits the account by req.Amount.
func (s *bankAccountService) Deposit(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error) {
	return s.post(ctx, bankAccountID, domain.BankDeposit, req, userID)
}

// Withdraw debits the account by req.Amount.
func (s *bankAccountService) Withdraw(ctx context.Context, bankAccountID string, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error) {
	return s.post(ctx, bankAccountID, domain.BankWithdrawal, req, userID)
}

func (s *bankAccountService) post(ctx context.Context, bankAccountID string, kind domain.TransactionType, req dto.BalanceEntryRequest, userID string) (*domain.BankAccount, error) {
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	date, err := dto.ParseDate(req.Date, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrInvalidState, bankAccountID)
	}

	delta := req.Amount
	if kind == domain.BankWithdrawal {
		if !account.CanDebit(req.Amount) {
			return nil, &apperrors.InsufficientFundsError{
				AccountID:    account.BankAccountID,
				CurrencyCode: account.CurrencyCode,
				Required:     req.Amount,
				Available:    account.Balance,
			}
		}
		delta = req.Amount.Neg()
	}

	description := req.Description
	if description == "" {
		description = string(kind)
	}
	accountID := account.BankAccountID
	entry := domain.Transaction{
		TransactionID: uuid.NewString(),
		Type:          kind,
		Amount:        req.Amount,
		CurrencyCode:  account.CurrencyCode,
		Date:          date,
		Description:   description,
		BankAccountID: &accountID,
		Installments:  1,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}

	updated, err := s.bankRepo.PostBalanceEntry(ctx, bankAccountID, entry, delta)
	if err != nil {
		var shortfall *apperrors.InsufficientFundsError
		if !errors.As(err, &shortfall) {
			s.LogError(ctx, err, "Failed to post balance entry",
				slog.String("bank_account_id", bankAccountID),
				slog.String("type", string(kind)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Balance entry posted",
		slog.String("bank_account_id", bankAccountID),
		slog.String("type", string(kind)),
		slog.String("amount", req.Amount.String()),
		slog.String("balance", updated.Balance.String()))
	return updated, nil
}
