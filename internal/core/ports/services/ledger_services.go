package services

import (
	"context"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// LedgerSvcFacade defines operations for deriving account ledgers from approved entries
type LedgerSvcFacade interface {
	// GetAccountLedger returns the account together with its ledger lines in posting
	// order, each carrying the running balance after that line.
	GetAccountLedger(ctx context.Context, bookID string, accountID string) (*domain.Account, []domain.LedgerLine, error)
}
