package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// BalanceResponse is the result of a point-in-time balance query, signed so
// that positive reads in the account's normal direction.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// LedgerResponse is an account's ledger over a date range, with a running
// balance carried forward per line.
type LedgerResponse struct {
	AccountID string              `json:"accountID"`
	From      time.Time           `json:"from"`
	To        time.Time           `json:"to"`
	Lines     []domain.LedgerLine `json:"lines"`
}
