package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateReconciliationRequest opens a reconciliation period for an account.
type CreateReconciliationRequest struct {
	AccountID      string          `json:"accountID" binding:"required"`
	StatementDate  time.Time       `json:"statementDate" binding:"required" time_format:"2006-01-02"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// StatementLineRequest is one normalized external statement record. Parsing of
// bank/CSV formats happens upstream; this is the shape the core consumes.
type StatementLineRequest struct {
	Date        time.Time       `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string          `json:"description,omitempty" binding:"max=1000"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type,omitempty" binding:"max=50"`
}

// AutoMatchRequest carries the statement lines to match against the ledger.
type AutoMatchRequest struct {
	Lines []StatementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToStatementLines converts request lines to their domain shape.
func (r AutoMatchRequest) ToStatementLines() []domain.StatementLine {
	lines := make([]domain.StatementLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.StatementLine{
			Date:        l.Date,
			Description: l.Description,
			Amount:      l.Amount,
			Type:        l.Type,
		}
	}
	return lines
}

// AddMatchRequest manually links one statement record to a ledger line. Manual
// matches are not constrained by the auto-match date window.
type AddMatchRequest struct {
	LineID          string          `json:"lineID" binding:"required"`
	StatementDate   time.Time       `json:"statementDate" binding:"required" time_format:"2006-01-02"`
	StatementDesc   string          `json:"statementDesc,omitempty" binding:"max=1000"`
	StatementAmount decimal.Decimal `json:"statementAmount"`
}

// ReconciliationResponse defines the data returned for a reconciliation record.
type ReconciliationResponse struct {
	ReconciliationID string                      `json:"reconciliationID"`
	AccountID        string                      `json:"accountID"`
	StatementDate    time.Time                   `json:"statementDate"`
	ClosingBalance   decimal.Decimal             `json:"closingBalance"`
	Status           domain.ReconciliationStatus `json:"status"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

// ToReconciliationResponse converts a domain.Reconciliation to its response shape.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID: r.ReconciliationID,
		AccountID:        r.AccountID,
		StatementDate:    r.StatementDate,
		ClosingBalance:   r.ClosingBalance,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

// AutoMatchResponse reports the outcome of an auto-match run. Tie-broken
// matches are flagged on each match for human review.
type AutoMatchResponse struct {
	Matched   []domain.Match         `json:"matched"`
	Unmatched []domain.StatementLine `json:"unmatched"`
}
