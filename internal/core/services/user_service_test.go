package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/core/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo      *MockUserRepository
	mockPortfolioRepo *MockPortfolioRepository
	service           portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockPortfolioRepo = new(MockPortfolioRepository)
	suite.service = services.NewUserService(
		suite.mockUserRepo, suite.mockPortfolioRepo, decimal.RequireFromString("1000"),
	)
}

func (suite *UserServiceTestSuite) TestRegister_SeedsPortfolioWithStartingBalance() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "alice", Password: "s3cret"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Return(nil).Once()

	var savedPortfolio *domain.Portfolio
	suite.mockPortfolioRepo.On("SavePortfolio", ctx, mock.AnythingOfType("*domain.Portfolio")).
		Run(func(args mock.Arguments) {
			savedPortfolio = args.Get(1).(*domain.Portfolio)
		}).
		Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("alice", user.Username)
	suite.NotEqual("s3cret", user.PasswordHash, "password must be stored hashed")

	suite.Require().NotNil(savedPortfolio)
	suite.Equal(user.UserID, savedPortfolio.UserID)
	usdWallet, ok := savedPortfolio.Wallet("USD")
	suite.Require().True(ok)
	suite.True(usdWallet.Balance.Equal(decimal.RequireFromString("1000")))
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "alice", Password: "s3cret"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Register(ctx, req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockPortfolioRepo.AssertNotCalled(suite.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Username: "alice", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "alice", "s3cret")
	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Username: "alice", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(stored, nil).Once()

	_, err = suite.service.Authenticate(ctx, "alice", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUser() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "ghost", "whatever")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
