package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tradingHandler handles buy, sell and deposit requests.
type tradingHandler struct {
	tradingService portssvc.TradingSvcFacade
}

func newTradingHandler(ts portssvc.TradingSvcFacade) *tradingHandler {
	return &tradingHandler{tradingService: ts}
}

// registerTradingRoutes registers routes related to trading.
func registerTradingRoutes(rg *gin.RouterGroup, tradingService portssvc.TradingSvcFacade) {
	h := newTradingHandler(tradingService)

	trade := rg.Group("/trade")
	{
		trade.POST("/buy", h.buy)
		trade.POST("/sell", h.sell)
	}
	rg.POST("/portfolio/deposit", h.deposit)
}

func (h *tradingHandler) buy(c *gin.Context) {
	h.executeTrade(c, domain.ActionBuy)
}

func (h *tradingHandler) sell(c *gin.Context) {
	h.executeTrade(c, domain.ActionSell)
}

func (h *tradingHandler) executeTrade(c *gin.Context, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("action", action),
		slog.String("currency_code", req.CurrencyCode),
		slog.String("amount", req.Amount.String()),
	)

	var result *domain.TradeResult
	var err error
	switch action {
	case domain.ActionBuy:
		result, err = h.tradingService.Buy(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
	case domain.ActionSell:
		result, err = h.tradingService.Sell(c.Request.Context(), userID, req.CurrencyCode, req.Amount)
	}
	if err != nil {
		h.respondTradeError(c, logger, err)
		return
	}

	logger.Info("Trade executed", slog.String("usd_delta", result.USDDelta.String()))
	c.JSON(http.StatusOK, dto.ToTradeResponse(result))
}

func (h *tradingHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.tradingService.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		h.respondTradeError(c, logger, err)
		return
	}

	logger.Info("Deposit completed", slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToTradeResponse(result))
}

// respondTradeError maps domain errors from trading operations onto HTTP
// statuses.
func (h *tradingHandler) respondTradeError(c *gin.Context, logger *slog.Logger, err error) {
	var insufficientErr *apperrors.InsufficientFundsError
	switch {
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Insufficient funds",
			"available": insufficientErr.Available,
			"requested": insufficientErr.Requested,
			"currency":  insufficientErr.CurrencyCode,
		})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Insufficient funds"})
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidOperation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrCurrencyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrRateUnavailable):
		logger.Warn("Rate unavailable for trade", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Exchange rate unavailable"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Portfolio changed concurrently, retry the operation"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Trade failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Trade failed"})
	}
}
