package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus indicates whether a reconciliation period is still open
// for matching. Locked is terminal.
type ReconciliationStatus string

const (
	ReconciliationOpen   ReconciliationStatus = "OPEN"
	ReconciliationLocked ReconciliationStatus = "LOCKED"
)

// Reconciliation represents one externally supplied statement period for an
// account, together with the closing balance the statement reports.
type Reconciliation struct {
	ReconciliationID string               `json:"reconciliationID"` // Primary key (UUID)
	BusinessID       string               `json:"businessID"`
	AccountID        string               `json:"accountID"`
	StatementDate    time.Time            `json:"statementDate"`
	ClosingBalance   decimal.Decimal      `json:"closingBalance"`
	Status           ReconciliationStatus `json:"status"`
	AuditFields
}

// StatementLine is one normalized record from an external bank or card
// statement. Format parsing happens upstream; the core only consumes this shape.
type StatementLine struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// Match links one external statement line to exactly one ledger line.
// TieBroken marks matches that were resolved by the deterministic tie-break
// (closest date, then lowest line id) so a human can review them.
type Match struct {
	MatchID          string          `json:"matchID"` // Primary key (UUID)
	ReconciliationID string          `json:"reconciliationID"`
	LineID           string          `json:"lineID"` // FK -> journal entry line
	StatementDate    time.Time       `json:"statementDate"`
	StatementDesc    string          `json:"statementDesc"`
	StatementAmount  decimal.Decimal `json:"statementAmount"`
	TieBroken        bool            `json:"tieBroken"`
	AuditFields
}

// MatchResult is the outcome of an auto-match run. Unmatched statement lines
// remain pending for manual resolution.
type MatchResult struct {
	Matched   []Match         `json:"matched"`
	Unmatched []StatementLine `json:"unmatched"`
}
