package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/core/services"
)

type PortfolioServiceTestSuite struct {
	suite.Suite
	mockPortfolioRepo *MockPortfolioRepository
	mockRateSvc       *MockRateService
	recorder          *capturingRecorder
	service           portssvc.PortfolioSvcFacade

	userID string
}

func (suite *PortfolioServiceTestSuite) SetupTest() {
	suite.mockPortfolioRepo = new(MockPortfolioRepository)
	suite.mockRateSvc = new(MockRateService)
	suite.recorder = &capturingRecorder{}
	suite.service = services.NewPortfolioService(
		suite.mockPortfolioRepo, suite.mockRateSvc,
		services.WithPortfolioAuditRecorder(suite.recorder),
	)
	suite.userID = "user-1"
}

func (suite *PortfolioServiceTestSuite) mixedPortfolio() *domain.Portfolio {
	p := domain.NewPortfolio(suite.userID, decimal.RequireFromString("406.6279"))
	p.EnsureWallet("BTC").Balance = decimal.RequireFromString("0.01")
	p.EnsureWallet("EUR").Balance = decimal.RequireFromString("50")
	return p
}

func (suite *PortfolioServiceTestSuite) rate(from, to, rate string) *domain.RatePair {
	return &domain.RatePair{
		FromCode:  from,
		ToCode:    to,
		Rate:      decimal.RequireFromString(rate),
		UpdatedAt: time.Now(),
	}
}

func (suite *PortfolioServiceTestSuite) TestGetTotalValue_SumsAllWallets() {
	ctx := context.Background()
	portfolio := suite.mixedPortfolio()

	suite.mockPortfolioRepo.On("FindByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockRateSvc.On("GetRate", ctx, "BTC", "USD").
		Return(suite.rate("BTC", "USD", "59337.21"), nil).Once()
	suite.mockRateSvc.On("GetRate", ctx, "EUR", "USD").
		Return(suite.rate("EUR", "USD", "1.0786"), nil).Once()

	total, err := suite.service.GetTotalValue(ctx, suite.userID, "USD")

	suite.Require().NoError(err)
	// 406.6279 + 0.01*59337.21 + 50*1.0786
	expected := decimal.RequireFromString("406.6279").
		Add(decimal.RequireFromString("593.3721")).
		Add(decimal.RequireFromString("53.93"))
	suite.True(total.Equal(expected), "total is %s", total)

	entry, ok := suite.recorder.Last()
	suite.Require().True(ok)
	suite.Equal("SHOW_PORTFOLIO", entry.Action)
	suite.Equal(portssvc.AuditOK, entry.Outcome)
}

func (suite *PortfolioServiceTestSuite) TestGetTotalValue_BaseWalletAddedDirectly() {
	ctx := context.Background()
	portfolio := domain.NewPortfolio(suite.userID, decimal.RequireFromString("1000"))

	suite.mockPortfolioRepo.On("FindByUserID", ctx, suite.userID).Return(portfolio, nil).Once()

	total, err := suite.service.GetTotalValue(ctx, suite.userID, "USD")

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.RequireFromString("1000")))
	suite.mockRateSvc.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PortfolioServiceTestSuite) TestGetTotalValue_MissingRateFailsWholeValuation() {
	ctx := context.Background()
	portfolio := suite.mixedPortfolio()

	suite.mockPortfolioRepo.On("FindByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockRateSvc.On("GetRate", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrRateUnavailable).Once()

	total, err := suite.service.GetTotalValue(ctx, suite.userID, "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.True(total.IsZero())

	entry, ok := suite.recorder.Last()
	suite.Require().True(ok)
	suite.Equal(portssvc.AuditError, entry.Outcome)
}

func (suite *PortfolioServiceTestSuite) TestGetTotalValue_EmptyBaseDefaultsToUSD() {
	ctx := context.Background()
	portfolio := domain.NewPortfolio(suite.userID, decimal.RequireFromString("10"))

	suite.mockPortfolioRepo.On("FindByUserID", ctx, suite.userID).Return(portfolio, nil).Once()

	total, err := suite.service.GetTotalValue(ctx, suite.userID, "")
	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.RequireFromString("10")))
}

func (suite *PortfolioServiceTestSuite) TestGetPortfolio_NotFoundPropagates() {
	ctx := context.Background()

	suite.mockPortfolioRepo.On("FindByUserID", ctx, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetPortfolio(ctx, suite.userID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPortfolioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioServiceTestSuite))
}
