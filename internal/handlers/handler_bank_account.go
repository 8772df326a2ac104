package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankAccountHandler handles HTTP requests related to bank accounts.
type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

func newBankAccountHandler(bas portssvc.BankAccountSvcFacade) *bankAccountHandler {
	return &bankAccountHandler{bankAccountService: bas}
}

// registerBankAccountRoutes registers routes related to bank accounts.
func registerBankAccountRoutes(rg *gin.RouterGroup, bankAccountService portssvc.BankAccountSvcFacade) {
	h := newBankAccountHandler(bankAccountService)

	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.createBankAccount)
		accounts.GET("/:accountID", h.getBankAccount)
		accounts.PUT("/:accountID/status", h.updateStatus)
		accounts.POST("/:accountID/deposits", h.deposit)
		accounts.POST("/:accountID/withdrawals", h.withdraw)
	}
}

func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create bank account", slog.String("bank_name", req.BankName), slog.String("currency_code", req.CurrencyCode))
	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created successfully", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	account, err := h.bankAccountService.GetBankAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) updateStatus(c *gin.Context) {
	var req dto.UpdateBankAccountStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	account, err := h.bankAccountService.SetBankAccountStatus(c.Request.Context(), c.Param("accountID"), req.Status, userID)
	if err != nil {
		respondError(c, err, "Failed to update bank account status")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

func (h *bankAccountHandler) deposit(c *gin.Context) {
	var req dto.BalanceEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	account, err := h.bankAccountService.Deposit(c.Request.Context(), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// withdraw answers 422 with the shortfall when the balance does not cover the amount.
func (h *bankAccountHandler) withdraw(c *gin.Context) {
	var req dto.BalanceEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	account, err := h.bankAccountService.Withdraw(c.Request.Context(), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}
