package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/middleware"
)

// Times holds the HH:MM trigger of each billing job.
type Times struct {
	GenerateInvoices  string
	BillSubscriptions string
	NotifyInvoices    string
	NotifySubs        string
}

// BillingJobs builds the four daily jobs on top of the service container.
func BillingJobs(services *portssvc.ServiceContainer, times Times) ([]Job, error) {
	specs := []struct {
		name string
		at   string
		run  RunFunc
	}{
		{"generate_invoices", times.GenerateInvoices, func(ctx context.Context, today time.Time) error {
			report, err := services.Invoice.GenerateInvoices(ctx, today, false)
			if err != nil {
				return err
			}
			middleware.GetLoggerFromCtx(ctx).Info("Invoices generated",
				slog.Int("created", len(report.Created)), slog.Int("skipped", len(report.Skipped)), slog.Int("failed", len(report.Failed)))
			return nil
		}},
		{"bill_subscriptions", times.BillSubscriptions, func(ctx context.Context, today time.Time) error {
			report, err := services.SubscriptionBill.RunBillingCycle(ctx, today)
			if err != nil {
				return err
			}
			middleware.GetLoggerFromCtx(ctx).Info("Subscriptions billed",
				slog.Int("charged", len(report.Transactions)), slog.Int("failed", len(report.Failed)))
			return nil
		}},
		{"notify_invoices_due", times.NotifyInvoices, func(ctx context.Context, today time.Time) error {
			_, err := services.DueNotification.NotifyInvoicesDue(ctx, today)
			return err
		}},
		{"notify_subscriptions_due", times.NotifySubs, func(ctx context.Context, today time.Time) error {
			_, err := services.DueNotification.NotifySubscriptionsDue(ctx, today)
			return err
		}},
	}

	jobs := make([]Job, 0, len(specs))
	for _, spec := range specs {
		at, err := ParseScheduleTime(spec.at)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{Name: spec.name, At: at, Run: spec.run})
	}
	return jobs, nil
}
