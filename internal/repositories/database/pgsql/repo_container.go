package pgsql

import (
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	bookRepo := newPgxBookRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return &portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		BookRepo:      bookRepo,
		UserRepo:      userRepo,
		JournalRepo:   journalRepo,
		ReportingRepo: reportingRepo,
	}
}
