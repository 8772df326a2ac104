package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobsHandler exposes the scheduled jobs as on-demand triggers.
type jobsHandler struct {
	invoiceService      portssvc.InvoiceGeneratorSvc
	billingService      portssvc.SubscriptionBillingSvc
	notificationService portssvc.DueNotificationSvc
}

func newJobsHandler(is portssvc.InvoiceGeneratorSvc, bs portssvc.SubscriptionBillingSvc, ns portssvc.DueNotificationSvc) *jobsHandler {
	return &jobsHandler{
		invoiceService:      is,
		billingService:      bs,
		notificationService: ns,
	}
}

// registerJobRoutes registers the job trigger routes.
func registerJobRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newJobsHandler(services.Invoice, services.SubscriptionBill, services.DueNotification)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("/invoices/generate", h.generateInvoices)
		jobs.POST("/invoices/notify-due", h.notifyInvoicesDue)
		jobs.POST("/subscriptions/bill", h.billSubscriptions)
		jobs.POST("/subscriptions/notify-due", h.notifySubscriptionsDue)
	}
}

// generateInvoices runs the invoice generator over every active card.
// A date in the body backfills a past closing day; force skips the closing-day check.
func (h *jobsHandler) generateInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateInvoicesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if _, ok := requireUser(c); !ok {
		return
	}

	refDate, err := dto.ParseDate(req.Date, today())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date: " + err.Error()})
		return
	}

	logger.Info("Received request to generate invoices", slog.String("reference_date", dto.FormatDate(refDate)), slog.Bool("force", req.Force))
	report, err := h.invoiceService.GenerateInvoices(c.Request.Context(), refDate, req.Force)
	if err != nil {
		respondError(c, err, "Failed to generate invoices")
		return
	}

	logger.Info("Invoice generation finished",
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)),
	)
	c.JSON(http.StatusOK, dto.GenerationReportResponse{
		ReferenceDate: dto.FormatDate(refDate),
		Created:       orEmpty(report.Created),
		Skipped:       orEmpty(report.Skipped),
		Failed:        orEmpty(report.Failed),
	})
}

func (h *jobsHandler) billSubscriptions(c *gin.Context) {
	refDate, ok := jobDate(c)
	if !ok {
		return
	}

	report, err := h.billingService.RunBillingCycle(c.Request.Context(), refDate)
	if err != nil {
		respondError(c, err, "Failed to bill subscriptions")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Subscription billing finished",
		slog.Int("charged", len(report.Transactions)),
		slog.Int("failed", len(report.Failed)),
	)
	c.JSON(http.StatusOK, dto.BillingRunResponse{
		ReferenceDate: dto.FormatDate(refDate),
		Transactions:  dto.ToListTransactionResponse(report.Transactions),
		Failed:        orEmpty(report.Failed),
	})
}

func (h *jobsHandler) notifyInvoicesDue(c *gin.Context) {
	h.notify(c, h.notificationService.NotifyInvoicesDue, "Failed to notify due invoices")
}

func (h *jobsHandler) notifySubscriptionsDue(c *gin.Context) {
	h.notify(c, h.notificationService.NotifySubscriptionsDue, "Failed to notify due subscriptions")
}

func (h *jobsHandler) notify(c *gin.Context, run func(ctx context.Context, today time.Time) (int, error), failMsg string) {
	refDate, ok := jobDate(c)
	if !ok {
		return
	}

	sent, err := run(c.Request.Context(), refDate)
	if err != nil {
		respondError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, dto.NotifyResponse{ReferenceDate: dto.FormatDate(refDate), Notified: sent})
}

// jobDate binds the optional {date} body of a job trigger, defaulting to today.
func jobDate(c *gin.Context) (time.Time, bool) {
	var req dto.JobDateRequest
	if !bindOptionalJSON(c, &req) {
		return time.Time{}, false
	}
	if _, ok := requireUser(c); !ok {
		return time.Time{}, false
	}
	refDate, err := dto.ParseDate(req.Date, today())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date: " + err.Error()})
		return time.Time{}, false
	}
	return refDate, true
}

// orEmpty keeps report lists serialized as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
