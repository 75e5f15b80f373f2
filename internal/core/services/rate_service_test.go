package services_test

import (
	"context"
	"errors"
	"fmt"
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

const testTTL = 600 * time.Second

type RateServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockRateRepository
	mockSource *MockRateSource
	recorder   *capturingRecorder
	service    portssvc.RateSvcFacade

	now time.Time
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateRepository)
	suite.mockSource = new(MockRateSource)
	suite.recorder = &capturingRecorder{}
	suite.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewRateService(
		suite.mockRepo, suite.mockSource, testTTL, 5*time.Second,
		services.WithRateClock(func() time.Time { return suite.now }),
		services.WithRateAuditRecorder(suite.recorder),
	)
}

func (suite *RateServiceTestSuite) btcUSD(updatedAt time.Time) *domain.RatePair {
	return &domain.RatePair{
		FromCode:  "BTC",
		ToCode:    "USD",
		Rate:      decimal.RequireFromString("59337.21"),
		UpdatedAt: updatedAt,
		Source:    "test",
	}
}

func (suite *RateServiceTestSuite) TestGetRate_EmptyCacheFetchesOnce() {
	ctx := context.Background()
	quote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(quote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), suite.now).
		Return(nil).Once()

	pair, err := suite.service.GetRate(ctx, "BTC", "USD")

	suite.Require().NoError(err)
	suite.True(pair.Rate.Equal(quote.Rate))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRate_FreshEntryServedWithoutFetch() {
	ctx := context.Background()
	quote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(quote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), mock.Anything).
		Return(nil).Once()

	first, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)

	// Move the clock forward but stay within the TTL; the cached entry is
	// returned unchanged, with no second fetch.
	suite.now = suite.now.Add(testTTL - time.Second)

	second, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)
	suite.True(first.Rate.Equal(second.Rate))
	suite.Equal(first.UpdatedAt, second.UpdatedAt)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRate", 1)
}

func (suite *RateServiceTestSuite) TestGetRate_ExactlyTTLOldIsStillFresh() {
	ctx := context.Background()
	quote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(quote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), mock.Anything).
		Return(nil).Once()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)

	suite.now = suite.now.Add(testTTL)

	_, err = suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRate", 1)
}

func (suite *RateServiceTestSuite) TestGetRate_StaleEntryRefreshes() {
	ctx := context.Background()
	oldQuote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(oldQuote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), mock.Anything).
		Return(nil).Twice()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)

	// One second past the TTL the entry is stale and must be refreshed.
	suite.now = suite.now.Add(testTTL + time.Second)
	newQuote := &domain.RatePair{
		FromCode:  "BTC",
		ToCode:    "USD",
		Rate:      decimal.RequireFromString("60000"),
		UpdatedAt: suite.now,
		Source:    "test",
	}
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(newQuote, nil).Once()

	pair, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)
	suite.True(pair.Rate.Equal(newQuote.Rate))
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRate", 2)
}

func (suite *RateServiceTestSuite) TestGetRate_WarmStartFromRepository() {
	ctx := context.Background()
	stored := suite.btcUSD(suite.now.Add(-time.Minute))

	// Repo has a fresh row; no source call happens at all.
	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").Return(stored, nil).Once()

	pair, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)
	suite.True(pair.Rate.Equal(stored.Rate))
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestGetRate_SourceMissIsUnavailable() {
	ctx := context.Background()

	suite.mockRepo.On("FindRatePair", ctx, "XYZ", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "XYZ", "USD").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetRate(ctx, "XYZ", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)

	entry, ok := suite.recorder.Last()
	suite.Require().True(ok)
	suite.Equal(portssvc.AuditError, entry.Outcome)
}

func (suite *RateServiceTestSuite) TestGetRate_SourceFailureIsUnavailable() {
	ctx := context.Background()

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").
		Return(nil, fmt.Errorf("connection refused")).Once()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *RateServiceTestSuite) TestGetRate_NonPositiveRateRejected() {
	ctx := context.Background()
	bad := &domain.RatePair{FromCode: "BTC", ToCode: "USD", Rate: decimal.Zero, UpdatedAt: suite.now}

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(bad, nil).Once()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRatePair", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestGetRate_NoImplicitInversion() {
	ctx := context.Background()
	quote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(quote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), mock.Anything).
		Return(nil).Once()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.Require().NoError(err)

	// The inverse pair is its own cache entry; it must go back to the
	// source, never be derived from BTC_USD.
	suite.mockRepo.On("FindRatePair", ctx, "USD", "BTC").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "USD", "BTC").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err = suite.service.GetRate(ctx, "USD", "BTC")
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *RateServiceTestSuite) TestGetRate_SaveFailureIsPersistence() {
	ctx := context.Background()
	quote := suite.btcUSD(suite.now)

	suite.mockRepo.On("FindRatePair", ctx, "BTC", "USD").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockSource.On("FetchRate", mock.Anything, "BTC", "USD").Return(quote, nil).Once()
	suite.mockRepo.On("SaveRatePair", ctx, mock.AnythingOfType("domain.RatePair"), mock.Anything).
		Return(errors.New("disk full")).Once()

	_, err := suite.service.GetRate(ctx, "BTC", "USD")
	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *RateServiceTestSuite) TestGetRate_EmptyCodeIsValidationError() {
	_, err := suite.service.GetRate(context.Background(), "", "USD")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestListRates_FiltersAndSorts() {
	ctx := context.Background()
	lastRefresh := suite.now.Add(-time.Minute)
	pairs := []domain.RatePair{
		{FromCode: "USD", ToCode: "RUB", Rate: decimal.RequireFromString("98.42")},
		{FromCode: "BTC", ToCode: "USD", Rate: decimal.RequireFromString("59337.21")},
		{FromCode: "EUR", ToCode: "USD", Rate: decimal.RequireFromString("1.0786")},
		{FromCode: "ETH", ToCode: "USD", Rate: decimal.RequireFromString("3720.00")},
	}

	suite.mockRepo.On("ListRatePairs", ctx).Return(pairs, nil)
	suite.mockRepo.On("LastRefresh", ctx).Return(lastRefresh, nil)

	listing, err := suite.service.ListRates(ctx, portssvc.RateFilter{})
	suite.Require().NoError(err)
	suite.Len(listing.Pairs, 4)
	suite.Equal("BTC", listing.Pairs[0].FromCode)
	suite.Equal("ETH", listing.Pairs[1].FromCode)
	suite.Equal(lastRefresh, listing.LastRefresh)

	listing, err = suite.service.ListRates(ctx, portssvc.RateFilter{Base: "usd"})
	suite.Require().NoError(err)
	suite.Len(listing.Pairs, 1)
	suite.Equal("RUB", listing.Pairs[0].ToCode)

	listing, err = suite.service.ListRates(ctx, portssvc.RateFilter{Currency: "EUR"})
	suite.Require().NoError(err)
	suite.Len(listing.Pairs, 1)

	listing, err = suite.service.ListRates(ctx, portssvc.RateFilter{Top: 2})
	suite.Require().NoError(err)
	suite.Len(listing.Pairs, 2)
	suite.Equal("BTC", listing.Pairs[0].FromCode)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
