package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/utils/accounting"
)

// reportingService builds financial reports from approved journal entries.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service.
type ReportingServiceOption func(*reportingService)

// WithReportingBookGuard adds the book precondition check dependency.
func WithReportingBookGuard(guard portssvc.BookGuardSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.BookGuard = guard
	}
}

// NewReportingService creates the reporting service with the provided options.
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface.
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists every account with approved activity up to asOf, with its
// debit and credit totals and resulting balance. Totals across all rows must
// agree; a mismatch means the store holds an unbalanced approved entry.
func (s *reportingService) TrialBalance(ctx context.Context, bookID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for TrialBalance", slog.String("book_id", bookID))
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, bookID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch trial balance data", slog.String("book_id", bookID))
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range rows {
		signed, err := accounting.SignedAmount(rows[i].Debit, rows[i].Credit, rows[i].AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
		rows[i].Balance = signed
		totalDebit = totalDebit.Add(rows[i].Debit)
		totalCredit = totalCredit.Add(rows[i].Credit)
	}

	if !accounting.BalancedWithinEpsilon(totalDebit, totalCredit) {
		err := fmt.Errorf("%w: trial balance for book %s does not balance: debits %s, credits %s",
			apperrors.ErrIntegrity, bookID, totalDebit.String(), totalCredit.String())
		s.LogError(ctx, err, "Trial balance integrity check failed", slog.String("book_id", bookID))
		return nil, err
	}

	return &domain.TrialBalanceReport{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// IncomeStatement reports income and expense activity for entries dated within
// [from, to], with net income as the difference.
func (s *reportingService) IncomeStatement(ctx context.Context, bookID string, from time.Time, to time.Time) (*domain.IncomeStatementReport, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for IncomeStatement", slog.String("book_id", bookID))
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report period end precedes start", apperrors.ErrValidation)
	}

	income, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, bookID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch income statement data", slog.String("book_id", bookID))
		return nil, err
	}

	totalIncome := sumNetAmounts(income)
	totalExpenses := sumNetAmounts(expenses)

	return &domain.IncomeStatementReport{
		Income:    income,
		Expenses:  expenses,
		NetIncome: totalIncome.Sub(totalExpenses),
	}, nil
}

// BalanceSheet reports assets, liabilities and equity as of a date. Income and
// expense activity that has not been closed into equity shows up as a derived
// "Net Income" equity row, so the accounting identity holds.
func (s *reportingService) BalanceSheet(ctx context.Context, bookID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for BalanceSheet", slog.String("book_id", bookID))
		return nil, err
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, bookID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch balance sheet data", slog.String("book_id", bookID))
		return nil, err
	}

	income, expenses, err := s.reportingRepo.GetIncomeStatementData(ctx, bookID, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch net income for balance sheet", slog.String("book_id", bookID))
		return nil, err
	}
	netIncome := sumNetAmounts(income).Sub(sumNetAmounts(expenses))
	if !netIncome.IsZero() {
		equity = append(equity, domain.AccountAmount{
			Name:      "Net Income",
			NetAmount: netIncome,
		})
	}

	totalAssets := sumNetAmounts(assets)
	totalLiabilities := sumNetAmounts(liabilities)
	totalEquity := sumNetAmounts(equity)

	if !accounting.BalancedWithinEpsilon(totalAssets, totalLiabilities.Add(totalEquity)) {
		err := fmt.Errorf("%w: balance sheet for book %s does not balance: assets %s, liabilities+equity %s",
			apperrors.ErrIntegrity, bookID, totalAssets.String(), totalLiabilities.Add(totalEquity).String())
		s.LogError(ctx, err, "Balance sheet integrity check failed", slog.String("book_id", bookID))
		return nil, err
	}

	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
	}, nil
}

func sumNetAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
