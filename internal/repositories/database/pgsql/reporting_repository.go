package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData retrieves per-account debit and credit totals as of a specific date.
// Only approved entries contribute; reversal pairs are both approved and net out.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, bookID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code AS account_code,
			a.name AS account_name,
			a.account_type,
			SUM(l.debit) AS total_debit,
			SUM(l.credit) AS total_credit
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date <= $1
			AND e.book_id = $2
			AND e.status = 'APPROVED'
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, bookID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}

// GetIncomeStatementData retrieves income and expense net amounts for a specific period
func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, bookID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND e.book_id = $3
			AND e.status = 'APPROVED'
			AND a.account_type IN ('INCOME', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, from, to, bookID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying income statement data: %w", err)
	}
	defer rows.Close()

	var income []domain.AccountAmount
	var expenses []domain.AccountAmount

	for rows.Next() {
		var accountType, accountID, code, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &code, &name, &netAmount); err != nil {
			return nil, nil, fmt.Errorf("error scanning income statement row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID:   accountID,
			AccountCode: code,
			Name:        name,
		}

		// Net is debit minus credit. Income accounts are credit-normal, so the
		// sign is inverted; expense accounts are debit-normal and keep it as is.
		if accountType == string(domain.Income) {
			accountAmount.NetAmount = netAmount.Neg()
			income = append(income, accountAmount)
		} else if accountType == string(domain.Expense) {
			accountAmount.NetAmount = netAmount
			expenses = append(expenses, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income statement rows: %w", err)
	}

	// Return empty slices instead of nil
	if income == nil {
		income = []domain.AccountAmount{}
	}
	if expenses == nil {
		expenses = []domain.AccountAmount{}
	}

	return income, expenses, nil
}

// GetBalanceSheetData retrieves asset, liability and equity net amounts as of a specific date
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, bookID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date <= $1
			AND e.book_id = $2
			AND e.status = 'APPROVED'
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, bookID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	var assets []domain.AccountAmount
	var liabilities []domain.AccountAmount
	var equity []domain.AccountAmount

	for rows.Next() {
		var accountType, accountID, code, name string
		var netAmount decimal.Decimal

		if err := rows.Scan(&accountType, &accountID, &code, &name, &netAmount); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		accountAmount := domain.AccountAmount{
			AccountID:   accountID,
			AccountCode: code,
			Name:        name,
			NetAmount:   netAmount,
		}

		switch accountType {
		case string(domain.Asset):
			// Asset accounts are debit-normal, keep the sign.
			assets = append(assets, accountAmount)
		case string(domain.Liability):
			// Credit-normal, invert for display.
			accountAmount.NetAmount = netAmount.Neg()
			liabilities = append(liabilities, accountAmount)
		case string(domain.Equity):
			// Credit-normal, invert for display.
			accountAmount.NetAmount = netAmount.Neg()
			equity = append(equity, accountAmount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	// Return empty slices instead of nil
	if assets == nil {
		assets = []domain.AccountAmount{}
	}
	if liabilities == nil {
		liabilities = []domain.AccountAmount{}
	}
	if equity == nil {
		equity = []domain.AccountAmount{}
	}

	return assets, liabilities, equity, nil
}
