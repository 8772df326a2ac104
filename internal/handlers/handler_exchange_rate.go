package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// getExchangeRate resolves the rate for a currency pair on an optional date, going
// through the cache, the stored history and the provider. With an amount it also converts.
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := strings.ToUpper(c.Param("from"))
	toCode := strings.ToUpper(c.Param("to"))

	// Basic validation - service does the ISO check
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency codes must be 3 letters"})
		return
	}

	var query dto.ExchangeRateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	var date *time.Time
	if query.Date != "" {
		d, err := dto.ParseDate(query.Date, time.Time{})
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date: " + err.Error()})
			return
		}
		date = &d
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))
	logger.Info("Received request to get exchange rate", slog.String("date", query.Date))

	rate, err := h.exchangeRateService.GetRate(c.Request.Context(), fromCode, toCode, date)
	if err != nil {
		respondError(c, err, "Failed to retrieve exchange rate")
		return
	}

	resp := dto.ExchangeRateResponse{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Date:             query.Date,
		Rate:             rate,
	}

	if query.Amount != "" {
		amount, err := decimal.NewFromString(query.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount: " + err.Error()})
			return
		}
		converted, err := h.exchangeRateService.Convert(c.Request.Context(), amount, fromCode, toCode, date)
		if err != nil {
			respondError(c, err, "Failed to convert amount")
			return
		}
		resp.Amount = &amount
		resp.ConvertedAmount = &converted
	}

	logger.Info("Exchange rate retrieved successfully", slog.String("rate", rate.String()))
	c.JSON(http.StatusOK, resp)
}
