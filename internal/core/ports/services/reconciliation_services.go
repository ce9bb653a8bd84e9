package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// ReconciliationSvcFacade is the reconciliation matcher contract. It consumes
// normalized external statement lines, proposes deterministic matches against
// posted ledger lines, and locks verified statement periods. Match results are
// a side table; posted entries are never mutated.
type ReconciliationSvcFacade interface {
	// CreateReconciliation opens a statement period for an account.
	CreateReconciliation(ctx context.Context, businessID string, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.Reconciliation, error)

	// GetReconciliation retrieves a reconciliation record.
	GetReconciliation(ctx context.Context, businessID string, reconciliationID string) (*domain.Reconciliation, error)

	// ListReconciliations retrieves the account's reconciliation records.
	ListReconciliations(ctx context.Context, businessID string, accountID string) ([]domain.Reconciliation, error)

	// ListMatches retrieves all matches recorded against a reconciliation.
	ListMatches(ctx context.Context, businessID string, reconciliationID string) ([]domain.Match, error)

	// AutoMatch matches statement lines against unmatched posted ledger lines
	// on the reconciliation's account within the configured date window.
	// Ambiguous candidates are resolved deterministically (closest date, then
	// lowest line id) and flagged for review; lines with no candidate are
	// returned unmatched.
	AutoMatch(ctx context.Context, businessID string, reconciliationID string, lines []domain.StatementLine, userID string) (*domain.MatchResult, error)

	// AddMatch manually links a statement record to an unmatched posted line on
	// the reconciliation's account. Unlike AutoMatch it ignores the date window.
	AddMatch(ctx context.Context, businessID string, reconciliationID string, req dto.AddMatchRequest, userID string) (*domain.Match, error)

	// RemoveMatch deletes a match from an open reconciliation.
	RemoveMatch(ctx context.Context, businessID string, reconciliationID string, matchID string) error

	// Lock makes the reconciliation terminal. Fails with
	// apperrors.ErrAlreadyLocked, or apperrors.ErrUnbalancedClosingBalance when
	// the computed balance at the statement date differs from the recorded
	// closing balance by more than epsilon.
	Lock(ctx context.Context, businessID string, reconciliationID string, userID string) error
}
