package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/core/services"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, bookID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, bookID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, bookID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, bookID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) HasJournalLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasApprovedJournalLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Suite ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockBookGuard   *MockBookGuard
	service         portssvc.AccountSvcFacade
	bookID          string
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockBookGuard = new(MockBookGuard)
	suite.service = services.NewAccountService(suite.mockAccountRepo, services.WithAccountBookGuard(suite.mockBookGuard))

	suite.bookID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) account(accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   uuid.NewString(),
		BookID:      suite.bookID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: accountType,
		IsActive:    true,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.bookID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.bookID, account.BookID)
	suite.Equal("1000", account.Code)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentInOtherBook() {
	ctx := context.Background()
	parent := suite.account(domain.Asset)
	parent.BookID = uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.bookID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.AccountType("PROFIT")}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.bookID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_WrongBook() {
	ctx := context.Background()
	account := suite.account(domain.Asset)
	account.BookID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.bookID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByIDs_FiltersOtherBooks() {
	ctx := context.Background()
	mine := suite.account(domain.Asset)
	foreign := suite.account(domain.Asset)
	foreign.BookID = uuid.NewString()
	ids := []string{mine.AccountID, foreign.AccountID}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, ids).Return(map[string]domain.Account{
		mine.AccountID:    mine,
		foreign.AccountID: foreign,
	}, nil).Once()

	accounts, err := suite.service.GetAccountByIDs(ctx, suite.bookID, ids)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Contains(accounts, mine.AccountID)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RetypeBlockedByApprovedLines() {
	ctx := context.Background()
	account := suite.account(domain.Asset)
	newType := domain.Expense

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasApprovedJournalLines", ctx, account.AccountID).Return(true, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.bookID, account.AccountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RetypeAllowedWithoutApprovedLines() {
	ctx := context.Background()
	account := suite.account(domain.Asset)
	newType := domain.Expense

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasApprovedJournalLines", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.bookID, account.AccountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Expense, updated.AccountType)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ParentCycle() {
	ctx := context.Background()
	account := suite.account(domain.Asset)
	child := suite.account(domain.Asset)
	child.ParentAccountID = account.AccountID

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	// Adopting a descendant as parent walks up and finds the account itself.
	suite.mockAccountRepo.On("FindAccountByID", ctx, child.AccountID).Return(&child, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.bookID, account.AccountID, dto.UpdateAccountRequest{ParentAccountID: &child.AccountID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferencedFails() {
	ctx := context.Background()
	account := suite.account(domain.Asset)

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasJournalLines", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.bookID, account.AccountID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := suite.account(domain.Asset)

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasJournalLines", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.bookID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := suite.account(domain.Asset)

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.bookID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
