package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, bookID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, bookID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, bookID string, from time.Time, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, bookID, from, to)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, bookID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, bookID, asOf)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

// --- Suite ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockBookGuard     *MockBookGuard
	service           portssvc.ReportingService
	bookID            string
	asOf              time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockBookGuard = new(MockBookGuard)
	suite.service = services.NewReportingService(suite.mockReportingRepo, services.WithReportingBookGuard(suite.mockBookGuard))

	suite.bookID = uuid.NewString()
	suite.asOf = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
}

// A book with one approved entry: debit Cash 1000, credit Capital 1000.
func (suite *ReportingServiceTestSuite) TestTrialBalance_CashAndCapital() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", AccountCode: "1000", AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(1000), Credit: decimal.Zero},
		{AccountID: "capital", AccountCode: "3000", AccountName: "Capital", AccountType: domain.Equity, Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
	}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.bookID, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.bookID, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	suite.True(report.TotalDebit.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalCredit.Equal(decimal.NewFromInt(1000)))
	// Both balances are positive in their normal direction.
	suite.True(report.Rows[0].Balance.Equal(decimal.NewFromInt(1000)))
	suite.True(report.Rows[1].Balance.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_IntegrityViolation() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(1000), Credit: decimal.Zero},
	}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.bookID, suite.asOf).Return(rows, nil).Once()

	_, err := suite.service.TrialBalance(ctx, suite.bookID, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_EmptyBook() {
	ctx := context.Background()

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.bookID, suite.asOf).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.bookID, suite.asOf)

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.True(report.TotalDebit.IsZero())
	suite.True(report.TotalCredit.IsZero())
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetIncome() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	income := []domain.AccountAmount{{AccountID: "sales", Name: "Sales", NetAmount: decimal.NewFromInt(800)}}
	expenses := []domain.AccountAmount{{AccountID: "rent", Name: "Rent", NetAmount: decimal.NewFromInt(300)}}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, suite.bookID, from, suite.asOf).Return(income, expenses, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, suite.bookID, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(500)))
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_InvertedPeriod() {
	ctx := context.Background()
	from := suite.asOf.AddDate(0, 1, 0)

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()

	_, err := suite.service.IncomeStatement(ctx, suite.bookID, from, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetIncomeStatementData", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IdentityWithNetIncome() {
	ctx := context.Background()
	assets := []domain.AccountAmount{{AccountID: "cash", Name: "Cash", NetAmount: decimal.NewFromInt(1500)}}
	liabilities := []domain.AccountAmount{{AccountID: "loan", Name: "Loan", NetAmount: decimal.NewFromInt(500)}}
	equity := []domain.AccountAmount{{AccountID: "capital", Name: "Capital", NetAmount: decimal.NewFromInt(800)}}
	// Unclosed income and expense activity makes up the missing 200.
	income := []domain.AccountAmount{{AccountID: "sales", Name: "Sales", NetAmount: decimal.NewFromInt(700)}}
	expenses := []domain.AccountAmount{{AccountID: "rent", Name: "Rent", NetAmount: decimal.NewFromInt(500)}}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.bookID, suite.asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, suite.bookID, time.Time{}, suite.asOf).Return(income, expenses, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.bookID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1500)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(500)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(1000)))

	// The derived Net Income row closes the gap.
	suite.Require().Len(report.Equity, 2)
	suite.Equal("Net Income", report.Equity[1].Name)
	suite.True(report.Equity[1].NetAmount.Equal(decimal.NewFromInt(200)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IdentityViolation() {
	ctx := context.Background()
	assets := []domain.AccountAmount{{AccountID: "cash", Name: "Cash", NetAmount: decimal.NewFromInt(1500)}}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{{AccountID: "capital", Name: "Capital", NetAmount: decimal.NewFromInt(800)}}

	suite.mockBookGuard.On("EnsureActiveBook", ctx, suite.bookID).Return(nil).Once()
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.bookID, suite.asOf).Return(assets, liabilities, equity, nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, suite.bookID, time.Time{}, suite.asOf).Return([]domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()

	_, err := suite.service.BalanceSheet(ctx, suite.bookID, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
