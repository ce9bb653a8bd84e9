package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockReportingRepository
	mockAccountSvc *MockAccountService
	service        portssvc.BalanceSvcFacade

	ctx        context.Context
	businessID string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewBalanceService(suite.mockRepo, suite.mockAccountSvc)

	suite.ctx = context.Background()
	suite.businessID = uuid.NewString()
}

func (suite *BalanceServiceTestSuite) newAccount(category domain.AccountCategory) *domain.Account {
	return &domain.Account{
		AccountID:  uuid.NewString(),
		BusinessID: suite.businessID,
		Category:   category,
		IsActive:   true,
	}
}

func (suite *BalanceServiceTestSuite) TestAccountBalanceAssetReadsDebitPositive() {
	account := suite.newAccount(domain.Asset)
	asOf := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	// Debits 900, credits 400: raw net 500.
	suite.mockRepo.On("GetAccountNet", suite.ctx, suite.businessID, account.AccountID, asOf).
		Return(decimal.NewFromInt(500), nil).Once()

	balance, err := suite.service.AccountBalance(suite.ctx, suite.businessID, account.AccountID, asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAccountBalanceRevenueReadsCreditPositive() {
	account := suite.newAccount(domain.Revenue)
	asOf := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	// Credit-heavy activity: raw net is negative, signed balance positive.
	suite.mockRepo.On("GetAccountNet", suite.ctx, suite.businessID, account.AccountID, asOf).
		Return(decimal.NewFromInt(-750), nil).Once()

	balance, err := suite.service.AccountBalance(suite.ctx, suite.businessID, account.AccountID, asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(750)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAccountBalanceZeroAsOfDefaultsToNow() {
	account := suite.newAccount(domain.Liability)

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	suite.mockRepo.On("GetAccountNet", suite.ctx, suite.businessID, account.AccountID, mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(-200), nil).Once()

	balance, err := suite.service.AccountBalance(suite.ctx, suite.businessID, account.AccountID, time.Time{})

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(200)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestLedgerCarriesOpeningBalanceForward() {
	account := suite.newAccount(domain.Asset)
	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)

	lines := []domain.LedgerLine{
		{
			LineID:  uuid.NewString(),
			EntryID: uuid.NewString(),
			Date:    time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC),
			Debit:   decimal.NewFromInt(300),
			Credit:  decimal.Zero,
		},
		{
			LineID:  uuid.NewString(),
			EntryID: uuid.NewString(),
			Date:    time.Date(2025, time.April, 12, 0, 0, 0, 0, time.UTC),
			Debit:   decimal.Zero,
			Credit:  decimal.NewFromInt(100),
		},
	}

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	// Opening activity before the window nets to 1000.
	suite.mockRepo.On("GetAccountNet", suite.ctx, suite.businessID, account.AccountID, from.Add(-time.Nanosecond)).
		Return(decimal.NewFromInt(1000), nil).Once()
	suite.mockRepo.On("GetLedgerLines", suite.ctx, suite.businessID, account.AccountID, from, to).
		Return(lines, nil).Once()

	result, err := suite.service.Ledger(suite.ctx, suite.businessID, account.AccountID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].RunningBalance.Equal(decimal.NewFromInt(1300)))
	suite.True(result[1].RunningBalance.Equal(decimal.NewFromInt(1200)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestLedgerCreditAccountRunsCreditPositive() {
	account := suite.newAccount(domain.Liability)
	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)

	lines := []domain.LedgerLine{
		{
			LineID:  uuid.NewString(),
			EntryID: uuid.NewString(),
			Date:    time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC),
			Debit:   decimal.Zero,
			Credit:  decimal.NewFromInt(400),
		},
		{
			LineID:  uuid.NewString(),
			EntryID: uuid.NewString(),
			Date:    time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC),
			Debit:   decimal.NewFromInt(150),
			Credit:  decimal.Zero,
		},
	}

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	suite.mockRepo.On("GetAccountNet", suite.ctx, suite.businessID, account.AccountID, from.Add(-time.Nanosecond)).
		Return(decimal.Zero, nil).Once()
	suite.mockRepo.On("GetLedgerLines", suite.ctx, suite.businessID, account.AccountID, from, to).
		Return(lines, nil).Once()

	result, err := suite.service.Ledger(suite.ctx, suite.businessID, account.AccountID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].RunningBalance.Equal(decimal.NewFromInt(400)))
	suite.True(result[1].RunningBalance.Equal(decimal.NewFromInt(250)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestLedgerZeroFromSkipsOpeningQuery() {
	account := suite.newAccount(domain.Asset)
	to := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.businessID, account.AccountID).
		Return(account, nil).Once()
	suite.mockRepo.On("GetLedgerLines", suite.ctx, suite.businessID, account.AccountID, time.Time{}, to).
		Return([]domain.LedgerLine{}, nil).Once()

	result, err := suite.service.Ledger(suite.ctx, suite.businessID, account.AccountID, time.Time{}, to)

	suite.Require().NoError(err)
	suite.Empty(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetAccountNet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
