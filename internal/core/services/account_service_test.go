package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/core/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade

	ctx        context.Context
	businessID string
	userID     string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)

	suite.ctx = context.Background()
	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccountSuccess() {
	req := dto.CreateAccountRequest{
		Code:     "1000",
		Name:     "Cash",
		Category: domain.Asset,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1000").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("1000", account.Code)
	suite.Equal(domain.Asset, account.Category)
	suite.True(account.IsActive)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.businessID, account.BusinessID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountInvalidCategory() {
	req := dto.CreateAccountRequest{
		Code:     "9999",
		Name:     "Mystery",
		Category: domain.AccountCategory("GOODWILL"),
	}

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccountDuplicateCode() {
	req := dto.CreateAccountRequest{
		Code:     "1000",
		Name:     "Cash",
		Category: domain.Asset,
	}
	existing := &domain.Account{
		AccountID:  uuid.NewString(),
		BusinessID: suite.businessID,
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1000").
		Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicateCode)
	suite.Nil(account)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountParentNotFound() {
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1100",
		Name:            "Accounts Receivable",
		Category:        domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1100").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).
		Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidParent)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountParentFromOtherBusiness() {
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1100",
		Name:            "Accounts Receivable",
		Category:        domain.Asset,
		ParentAccountID: &parentID,
	}
	foreignParent := &domain.Account{
		AccountID:  parentID,
		BusinessID: uuid.NewString(),
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1100").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).
		Return(foreignParent, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidParent)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountInactiveParent() {
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1100",
		Name:            "Accounts Receivable",
		Category:        domain.Asset,
		ParentAccountID: &parentID,
	}
	inactiveParent := &domain.Account{
		AccountID:  parentID,
		BusinessID: suite.businessID,
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   false,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1100").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).
		Return(inactiveParent, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidParent)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccountCyclicParentChain() {
	parentID := uuid.NewString()
	grandparentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1200",
		Name:            "Inventory",
		Category:        domain.Asset,
		ParentAccountID: &parentID,
	}
	// parent -> grandparent -> parent again
	parent := &domain.Account{
		AccountID:       parentID,
		BusinessID:      suite.businessID,
		Category:        domain.Asset,
		ParentAccountID: grandparentID,
		IsActive:        true,
	}
	grandparent := &domain.Account{
		AccountID:       grandparentID,
		BusinessID:      suite.businessID,
		Category:        domain.Asset,
		ParentAccountID: parentID,
		IsActive:        true,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1200").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).
		Return(parent, nil).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, grandparentID).
		Return(grandparent, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.businessID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrCycleDetected)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByIDScopesBusiness() {
	accountID := uuid.NewString()
	foreign := &domain.Account{
		AccountID:  accountID,
		BusinessID: uuid.NewString(),
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).
		Return(foreign, nil).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, suite.businessID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByIDsFiltersForeignAccounts() {
	ownID := uuid.NewString()
	foreignID := uuid.NewString()
	accounts := map[string]domain.Account{
		ownID:     {AccountID: ownID, BusinessID: suite.businessID, Category: domain.Asset, IsActive: true},
		foreignID: {AccountID: foreignID, BusinessID: uuid.NewString(), Category: domain.Asset, IsActive: true},
	}

	suite.mockRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).
		Return(accounts, nil).Once()

	result, err := suite.service.GetAccountByIDs(suite.ctx, suite.businessID, []string{ownID, foreignID})

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.Contains(result, ownID)
	suite.NotContains(result, foreignID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountSuccess() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:  accountID,
		BusinessID: suite.businessID,
		Code:       "6000",
		Category:   domain.Expense,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("HasActiveChildren", suite.ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("HasPostedLines", suite.ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("DeactivateAccount", suite.ctx, accountID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.businessID, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountIdempotentWhenInactive() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:  accountID,
		BusinessID: suite.businessID,
		Code:       "6000",
		Category:   domain.Expense,
		IsActive:   false,
	}

	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.businessID, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountWithActiveChildren() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:  accountID,
		BusinessID: suite.businessID,
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("HasActiveChildren", suite.ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.businessID, accountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccountWithPostedLines() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:  accountID,
		BusinessID: suite.businessID,
		Code:       "4000",
		Category:   domain.Revenue,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("HasActiveChildren", suite.ctx, accountID).Return(false, nil).Once()
	suite.mockRepo.On("HasPostedLines", suite.ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.businessID, accountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountInUse)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestBootstrapStandardChartFreshBusiness() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound)
	suite.mockRepo.On("SaveAccounts", suite.ctx, mock.AnythingOfType("[]domain.Account")).
		Return(nil).Once()

	created, err := suite.service.BootstrapStandardChart(suite.ctx, suite.businessID, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(created)
	codes := make(map[string]domain.AccountCategory, len(created))
	for _, acc := range created {
		codes[acc.Code] = acc.Category
		suite.True(acc.IsActive)
		suite.Equal(suite.businessID, acc.BusinessID)
	}
	suite.Equal(domain.Asset, codes["1000"])
	suite.Equal(domain.Liability, codes["2000"])
	suite.Equal(domain.Equity, codes["3000"])
	suite.Equal(domain.Revenue, codes["4000"])
	suite.Equal(domain.Expense, codes["6000"])
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestBootstrapStandardChartSkipsExistingCodes() {
	existing := &domain.Account{
		AccountID:  uuid.NewString(),
		BusinessID: suite.businessID,
		Code:       "1000",
		Category:   domain.Asset,
		IsActive:   true,
	}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, "1000").
		Return(existing, nil).Once()
	suite.mockRepo.On("FindAccountByCode", suite.ctx, suite.businessID, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound)
	suite.mockRepo.On("SaveAccounts", suite.ctx, mock.AnythingOfType("[]domain.Account")).
		Return(nil).Once()

	created, err := suite.service.BootstrapStandardChart(suite.ctx, suite.businessID, suite.userID)

	suite.Require().NoError(err)
	for _, acc := range created {
		suite.NotEqual("1000", acc.Code)
	}
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
