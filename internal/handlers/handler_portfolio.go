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

// portfolioHandler serves portfolio views.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvcFacade
}

func newPortfolioHandler(ps portssvc.PortfolioSvcFacade) *portfolioHandler {
	return &portfolioHandler{portfolioService: ps}
}

// registerPortfolioRoutes registers routes related to portfolios.
func registerPortfolioRoutes(rg *gin.RouterGroup, portfolioService portssvc.PortfolioSvcFacade) {
	h := newPortfolioHandler(portfolioService)

	portfolio := rg.Group("/portfolio")
	{
		portfolio.GET("", h.getPortfolio)
		portfolio.GET("/value", h.getTotalValue)
	}
}

func (h *portfolioHandler) getPortfolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Portfolio not found"})
			return
		}
		logger.Error("Failed to get portfolio", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve portfolio"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioResponse(portfolio))
}

func (h *portfolioHandler) getTotalValue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	baseCurrency := c.DefaultQuery("base", domain.SettlementCurrency)
	baseCurrency = domain.NormalizeCurrencyCode(baseCurrency)

	total, err := h.portfolioService.GetTotalValue(c.Request.Context(), userID, baseCurrency)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRateUnavailable):
			logger.Warn("Valuation failed on missing rate", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Portfolio not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to value portfolio", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to value portfolio"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioValueResponse(baseCurrency, total))
}
