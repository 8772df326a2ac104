package mapping

import (
	"fmt"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	"github.com/SscSPs/finance_ledger/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID: d.BankAccountID,
		UserID:        d.UserID,
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		CurrencyCode:  d.CurrencyCode,
		Balance:       d.Balance,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount,
// rejecting rows with an unknown status.
func ToDomainBankAccount(m models.BankAccount) (domain.BankAccount, error) {
	status, err := domain.ParseBankAccountStatus(m.Status)
	if err != nil {
		return domain.BankAccount{}, fmt.Errorf("bank account %s: %w", m.BankAccountID, err)
	}
	return domain.BankAccount{
		BankAccountID: m.BankAccountID,
		UserID:        m.UserID,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		CurrencyCode:  m.CurrencyCode,
		Balance:       m.Balance,
		Status:        status,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
