package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cardHandler handles HTTP requests related to credit cards.
type cardHandler struct {
	cardService portssvc.CardSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade) *cardHandler {
	return &cardHandler{cardService: cs}
}

// registerCardRoutes registers routes related to cards.
func registerCardRoutes(rg *gin.RouterGroup, cardService portssvc.CardSvcFacade) {
	h := newCardHandler(cardService)

	cards := rg.Group("/cards")
	{
		cards.POST("", h.createCard)
		cards.GET("/:cardID", h.getCard)
		cards.POST("/:cardID/activate", h.activateCard)
		cards.POST("/:cardID/deactivate", h.deactivateCard)
		cards.POST("/:cardID/purchases", h.recordPurchase)
	}
}

func (h *cardHandler) createCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCardRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create card", slog.String("bank_account_id", req.BankAccountID), slog.Int("closing_day", req.ClosingDay))
	card, err := h.cardService.CreateCard(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create card")
		return
	}

	logger.Info("Card created successfully", slog.String("card_id", card.CardID))
	c.JSON(http.StatusCreated, dto.ToCardResponse(card))
}

func (h *cardHandler) getCard(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	card, err := h.cardService.GetCard(c.Request.Context(), c.Param("cardID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

func (h *cardHandler) activateCard(c *gin.Context) {
	h.changeStatus(c, h.cardService.ActivateCard, "Failed to activate card")
}

// deactivateCard answers 409 while active subscriptions still bill the card.
func (h *cardHandler) deactivateCard(c *gin.Context) {
	h.changeStatus(c, h.cardService.DeactivateCard, "Failed to deactivate card")
}

func (h *cardHandler) changeStatus(c *gin.Context, change func(ctx context.Context, cardID, userID string) (*domain.Card, error), failMsg string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	card, err := change(c.Request.Context(), c.Param("cardID"), userID)
	if err != nil {
		respondError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

func (h *cardHandler) recordPurchase(c *gin.Context) {
	var req dto.CardPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	txn, err := h.cardService.RecordPurchase(c.Request.Context(), c.Param("cardID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record purchase")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
