package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices and their settlement.
type invoiceHandler struct {
	invoiceService    portssvc.InvoiceReaderSvc
	settlementService portssvc.SettlementSvc
}

func newInvoiceHandler(is portssvc.InvoiceReaderSvc, ss portssvc.SettlementSvc) *invoiceHandler {
	return &invoiceHandler{
		invoiceService:    is,
		settlementService: ss,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceReaderSvc, settlementService portssvc.SettlementSvc) {
	h := newInvoiceHandler(invoiceService, settlementService)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/pay", h.payInvoice)
	}
}

// getInvoice returns an invoice together with the transactions billed on it and its cashback.
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoiceID := c.Param("invoiceID")
	if _, ok := requireUser(c); !ok {
		return
	}
	ctx := c.Request.Context()

	invoice, err := h.invoiceService.GetInvoice(ctx, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	txns, err := h.invoiceService.ListInvoiceTransactions(ctx, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice transactions")
		return
	}
	cashback, err := h.invoiceService.ListInvoiceCashback(ctx, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice cashback")
		return
	}

	c.JSON(http.StatusOK, dto.InvoiceDetailResponse{
		InvoiceResponse: dto.ToInvoiceResponse(invoice),
		Transactions:    dto.ToListTransactionResponse(txns),
		Cashback:        dto.ToListCashbackResponse(cashback),
	})
}

// payInvoice settles an open invoice from a bank account, converting the amount
// at the payment date's rate when the currencies differ.
func (h *invoiceHandler) payInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.PayInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	paymentDate, err := dto.ParseDate(req.PaymentDate, today())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payment date: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("bank_account_id", req.BankAccountID))
	logger.Info("Received request to pay invoice", slog.String("payment_date", dto.FormatDate(paymentDate)))

	settlement, err := h.settlementService.PayInvoice(c.Request.Context(), invoiceID, req.BankAccountID, paymentDate, userID)
	if err != nil {
		respondError(c, err, "Failed to pay invoice")
		return
	}

	logger.Info("Invoice paid successfully",
		slog.String("debit_amount", settlement.DebitAmount.StringFixed(2)),
		slog.String("rate", settlement.Rate.String()),
	)
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}
