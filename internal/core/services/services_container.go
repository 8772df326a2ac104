package services

import (
	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/platform/config"
)

// Providers bundles the outbound adapters the services need besides repositories.
type Providers struct {
	RateCache    providers.RateCache
	RateProvider providers.RateProvider
	Notifier     providers.Notifier
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Providers, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settlement depends on the rate service, so it goes first
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, deps.RateCache, deps.RateProvider, cfg.LatestRateTTL, cfg.ExchangeRateTimeout, options...)

	container.Invoice = NewInvoiceService(repos.CardRepo, repos.TransactionRepo, repos.InvoiceRepo, options...)
	container.Settlement = NewSettlementService(repos.InvoiceRepo, repos.BankAccountRepo, repos.CardRepo, container.ExchangeRate, options...)
	container.SubscriptionBill = NewSubscriptionBillingService(repos.SubscriptionRepo, repos.CardRepo, options...)
	container.DueNotification = NewDueNotificationService(repos.InvoiceRepo, repos.SubscriptionRepo, deps.Notifier, cfg.NotifyLookaheadDays, options...)

	container.BankAccount = NewBankAccountService(repos.BankAccountRepo, options...)
	container.Card = NewCardService(repos.CardRepo, repos.BankAccountRepo, repos.SubscriptionRepo, repos.TransactionRepo, options...)
	container.Subscription = NewSubscriptionService(repos.SubscriptionRepo, repos.CardRepo, options...)

	return container
}
