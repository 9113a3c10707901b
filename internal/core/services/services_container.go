package services

import (
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/platform/config"
)

// NewServiceContainer wires up all application services with their repository
// dependencies. The book service doubles as the guard every book-scoped
// service consults before touching book data.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Book = NewBookService(repos.BookRepo)
	guard := portssvc.BookGuardSvc(container.Book)

	container.User = NewUserService(repos.UserRepo)
	container.Account = NewAccountService(repos.AccountRepo, WithAccountBookGuard(guard))
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, guard, cfg.JournalAutoSubmit)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.JournalRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, WithReportingBookGuard(guard))

	return container
}
