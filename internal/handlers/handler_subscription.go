package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger/internal/dto"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subscriptionHandler handles HTTP requests related to subscriptions.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

func newSubscriptionHandler(ss portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{subscriptionService: ss}
}

// registerSubscriptionRoutes registers routes related to subscriptions.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subscriptionService)

	subs := rg.Group("/subscriptions")
	{
		subs.POST("", h.createSubscription)
		subs.GET("/:subscriptionID", h.getSubscription)
		subs.POST("/:subscriptionID/pause", h.pauseSubscription)
		subs.POST("/:subscriptionID/resume", h.resumeSubscription)
		subs.POST("/:subscriptionID/cancel", h.cancelSubscription)
	}
}

func (h *subscriptionHandler) createSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create subscription", slog.String("card_id", req.CardID), slog.String("frequency", string(req.Frequency)))
	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create subscription")
		return
	}

	logger.Info("Subscription created successfully", slog.String("subscription_id", sub.SubscriptionID))
	c.JSON(http.StatusCreated, dto.ToSubscriptionResponse(sub))
}

func (h *subscriptionHandler) getSubscription(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.Param("subscriptionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

func (h *subscriptionHandler) pauseSubscription(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.PauseSubscription(c.Request.Context(), c.Param("subscriptionID"), userID)
	if err != nil {
		respondError(c, err, "Failed to pause subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// resumeSubscription reactivates a paused subscription. The optional body date
// sets the reference for the next charge.
func (h *subscriptionHandler) resumeSubscription(c *gin.Context) {
	var req dto.ResumeSubscriptionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	refDate, err := dto.ParseDate(req.Date, today())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date: " + err.Error()})
		return
	}
	sub, err := h.subscriptionService.ResumeSubscription(c.Request.Context(), c.Param("subscriptionID"), refDate, userID)
	if err != nil {
		respondError(c, err, "Failed to resume subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

func (h *subscriptionHandler) cancelSubscription(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.CancelSubscription(c.Request.Context(), c.Param("subscriptionID"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}
