package repositories

import (
	"context"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account debit and credit totals as of a specific date
	GetTrialBalanceData(ctx context.Context, bookID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetIncomeStatementData retrieves income and expense net amounts for a specific period
	GetIncomeStatementData(ctx context.Context, bookID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetBalanceSheetData retrieves asset, liability and equity net amounts as of a specific date
	GetBalanceSheetData(ctx context.Context, bookID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)
}
