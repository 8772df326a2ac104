package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers and the scheduler.
type ServiceContainer struct {
	ExchangeRate     ExchangeRateSvcFacade
	Invoice          InvoiceSvcFacade
	Settlement       SettlementSvc
	SubscriptionBill SubscriptionBillingSvc
	DueNotification  DueNotificationSvc
	BankAccount      BankAccountSvcFacade
	Card             CardSvcFacade
	Subscription     SubscriptionSvcFacade
}
