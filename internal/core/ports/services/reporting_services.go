package services

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ActivityClassifier buckets a cash movement into an operating, investing or
// financing activity from its entry description. The default implementation is
// a keyword heuristic, a known approximation, so it lives behind this
// interface and can be replaced by explicit per-entry activity tagging without
// touching the statement generator.
type ActivityClassifier interface {
	Classify(description string) domain.CashFlowActivity
}

// ReportingSvcFacade is the statement generator contract. All reports are
// derived from balance aggregator outputs over posted entries only.
type ReportingSvcFacade interface {
	// TrialBalance lists every active account's balance as of a date,
	// partitioned into debit and credit columns by sign. Column totals match
	// for a consistent ledger.
	TrialBalance(ctx context.Context, businessID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss reports revenue minus expenses over [from, to].
	ProfitAndLoss(ctx context.Context, businessID string, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet reports assets, liabilities and equity as of asOf, folding
	// the period's net P&L from periodStart into equity (retained-earnings
	// roll-up) so the sheet balances. A zero periodStart defaults to the start
	// of asOf's calendar year.
	BalanceSheet(ctx context.Context, businessID string, asOf time.Time, periodStart time.Time) (*domain.BalanceSheetReport, error)

	// CashFlow classifies each posted entry touching the designated cash
	// account into Operating / Investing / Financing buckets and sums signed
	// cash movement per bucket.
	CashFlow(ctx context.Context, businessID string, cashAccountID string, from, to time.Time) (*domain.CashFlowReport, error)
}
