package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ReportingRepositoryFacade defines the read-only queries the balance
// aggregator and statement generator are built on. All sums cover Posted
// entries only; recompute-from-source is the correctness baseline, so none of
// these queries consult any cached balance.
type ReportingRepositoryFacade interface {
	// GetAccountNet returns sum(debit) - sum(credit) across all posted lines
	// for the account with entry date on or before asOf. No sign convention is
	// applied; callers sign the result by the account's normal balance side.
	GetAccountNet(ctx context.Context, businessID string, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetLedgerLines returns the account's posted lines in [from, to], ordered
	// by entry date ascending with ties broken by entry creation order.
	// RunningBalance is left zero; the aggregator carries it forward.
	GetLedgerLines(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error)

	// GetTrialBalanceData returns raw per-account debit and credit sums for all
	// active accounts with activity on or before asOf.
	GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData returns per-account net amounts for revenue and
	// expense accounts over [from, to], signed to read positive in each
	// category's normal direction.
	GetProfitAndLossData(ctx context.Context, businessID string, from, to time.Time) (revenue []domain.AccountAmount, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns per-account net amounts for asset, liability
	// and equity accounts as of asOf, signed to read positive in each
	// category's normal direction.
	GetBalanceSheetData(ctx context.Context, businessID string, asOf time.Time) (assets []domain.AccountAmount, liabilities []domain.AccountAmount, equity []domain.AccountAmount, err error)

	// GetCashMovements returns, per posted entry touching the cash account in
	// [from, to], the entry's net effect on that account (debit positive).
	// Activity classification is left to the caller.
	GetCashMovements(ctx context.Context, businessID string, cashAccountID string, from, to time.Time) ([]domain.CashMovement, error)
}
