package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation data.
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation record.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// ListReconciliations retrieves all reconciliation records for an account,
	// newest statement first.
	ListReconciliations(ctx context.Context, businessID string, accountID string) ([]domain.Reconciliation, error)

	// ListMatches retrieves all matches recorded against a reconciliation.
	ListMatches(ctx context.Context, reconciliationID string) ([]domain.Match, error)

	// FindUnmatchedPostedLines returns the account's posted lines in [from, to]
	// that are not yet referenced by any reconciliation match, ordered by entry
	// date then line id for deterministic candidate selection.
	FindUnmatchedPostedLines(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error)

	// FindUnmatchedPostedLine returns one posted line on the account that no
	// reconciliation match references yet. Fails with apperrors.ErrNotFound when
	// the line is missing, not posted, on another account, or already matched.
	FindUnmatchedPostedLine(ctx context.Context, businessID string, accountID string, lineID string) (*domain.LedgerLine, error)
}

// ReconciliationWriter defines write operations for reconciliation data.
type ReconciliationWriter interface {
	// SaveReconciliation persists a new reconciliation record.
	SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error

	// SaveMatches persists a batch of matches atomically. Matches are a side
	// table; posted entries and their lines are never mutated.
	SaveMatches(ctx context.Context, matches []domain.Match) error

	// DeleteMatch removes a match from an open reconciliation.
	DeleteMatch(ctx context.Context, matchID string) error

	// LockReconciliation flips the record to Locked after re-verifying, inside
	// one serialized critical section, that it is still open and that the
	// ledger balance at the statement date equals the recorded closing balance
	// within epsilon. Fails with apperrors.ErrAlreadyLocked or
	// apperrors.ErrUnbalancedClosingBalance.
	LockReconciliation(ctx context.Context, rec domain.Reconciliation, category domain.AccountCategory, userID string, now time.Time) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
