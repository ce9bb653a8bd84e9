package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus mirrors domain.ReconciliationStatus for DB storage.
type ReconciliationStatus string

const (
	ReconciliationOpen   ReconciliationStatus = "OPEN"
	ReconciliationLocked ReconciliationStatus = "LOCKED"
)

// Reconciliation represents one statement period row for an account.
type Reconciliation struct {
	ReconciliationID string               `db:"reconciliation_id"`
	BusinessID       string               `db:"business_id"`
	AccountID        string               `db:"account_id"`
	StatementDate    time.Time            `db:"statement_date"`
	ClosingBalance   decimal.Decimal      `db:"closing_balance"`
	Status           ReconciliationStatus `db:"status"`
	AuditFields
}

// ReconciliationMatch links a statement line to a ledger line. This is a side
// table; posted entries and their lines are never mutated by matching.
type ReconciliationMatch struct {
	MatchID          string          `db:"match_id"`
	ReconciliationID string          `db:"reconciliation_id"`
	LineID           string          `db:"line_id"`
	StatementDate    time.Time       `db:"statement_date"`
	StatementDesc    string          `db:"statement_desc"`
	StatementAmount  decimal.Decimal `db:"statement_amount"`
	TieBroken        bool            `db:"tie_broken"`
	AuditFields
}
