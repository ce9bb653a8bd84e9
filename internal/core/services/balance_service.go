package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
)

// balanceService implements the balance aggregator. Balances are always
// derived from the immutable posted-entry history; there is no incrementally
// mutated counter to drift from the source of truth.
type balanceService struct {
	BaseService
	accountSvc    portssvc.AccountSvcFacade
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewBalanceService creates a new balance service.
func NewBalanceService(reportingRepo portsrepo.ReportingRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountSvc:    accountSvc,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AccountBalance returns the account's balance as of the given instant. A zero
// asOf defaults to now. The raw debit-minus-credit sum is signed by the
// account's normal balance side so positive reads in the expected direction.
func (s *balanceService) AccountBalance(ctx context.Context, businessID string, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	net, err := s.reportingRepo.GetAccountNet(ctx, businessID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balance", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	balance, err := accounting.ApplyNormalSign(net, account.Category)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// Ledger returns the account's posted activity in [from, to] with a running
// balance carried forward. The opening balance is the account's activity
// before from, so the running total always reflects the full history.
func (s *balanceService) Ledger(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, businessID, accountID)
	if err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}

	running := decimal.Zero
	if !from.IsZero() {
		openingNet, err := s.reportingRepo.GetAccountNet(ctx, businessID, accountID, from.Add(-time.Nanosecond))
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance for account %s: %w", accountID, err)
		}
		running, err = accounting.ApplyNormalSign(openingNet, account.Category)
		if err != nil {
			return nil, err
		}
	}

	lines, err := s.reportingRepo.GetLedgerLines(ctx, businessID, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch ledger lines", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve ledger for account %s: %w", accountID, err)
	}

	for i := range lines {
		signed, err := accounting.SignedAmount(lines[i].Debit, lines[i].Credit, account.Category)
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)
		lines[i].RunningBalance = running
	}

	s.LogDebug(ctx, "Ledger computed", slog.String("account_id", accountID), slog.Int("lines", len(lines)))
	return lines, nil
}
