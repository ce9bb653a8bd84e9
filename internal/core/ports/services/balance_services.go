package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// BalanceSvcFacade is the balance aggregator contract: pure, restartable reads
// over committed entry history. Recomputing the same query twice with no
// intervening writes yields identical results.
type BalanceSvcFacade interface {
	// AccountBalance returns the account's balance as of the given instant,
	// signed so that positive reads in the account's normal direction.
	AccountBalance(ctx context.Context, businessID string, accountID string, asOf time.Time) (decimal.Decimal, error)

	// Ledger returns the account's posted activity in [from, to] with a running
	// balance carried forward in entry date order, ties broken by entry
	// creation order.
	Ledger(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error)
}
