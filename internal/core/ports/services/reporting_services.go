package services

import (
	"context"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, bookID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// IncomeStatement generates an income statement for a specific period
	IncomeStatement(ctx context.Context, bookID string, from, to time.Time) (*domain.IncomeStatementReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, bookID string, asOf time.Time) (*domain.BalanceSheetReport, error)
}
