package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/utils/accounting"
)

// ledgerService derives account ledgers from approved journal entries.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalLineReader
}

// NewLedgerService creates the ledger derivation service.
func NewLedgerService(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalLineReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure ledgerService implements the LedgerSvcFacade interface.
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetAccountLedger returns the account and the chronological list of approved
// journal lines touching it, each carrying the running balance after that
// line. Debit-normal accounts accumulate debit-credit, credit-normal accounts
// credit-debit, so a healthy balance reads positive either way.
func (s *ledgerService) GetAccountLedger(ctx context.Context, bookID string, accountID string) (*domain.Account, []domain.LedgerLine, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for ledger", slog.String("account_id", accountID))
		}
		return nil, nil, err
	}
	if account.BookID != bookID {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found in book %s", accountID, bookID))
	}

	lines, err := s.journalRepo.ListLedgerLines(ctx, bookID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines",
			slog.String("account_id", accountID),
			slog.String("book_id", bookID))
		return nil, nil, err
	}

	running := decimal.Zero
	for i := range lines {
		signed, err := accounting.SignedAmount(lines[i].Debit, lines[i].Credit, account.AccountType)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
		running = running.Add(signed)
		lines[i].Balance = running
	}

	return account, lines, nil
}
