package services

import (
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. The account service is constructed first since the journal,
// balance and reconciliation services resolve accounts through it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Journal:   NewJournalService(repos.JournalRepo, accountSvc),
		Balance:   NewBalanceService(repos.ReportingRepo, accountSvc),
		Reporting: NewReportingService(repos.ReportingRepo),
		Reconciliation: NewReconciliationService(
			repos.ReconciliationRepo,
			accountSvc,
			WithMatchWindowDays(cfg.MatchWindowDays),
		),
	}
}
