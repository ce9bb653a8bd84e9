package services

import (
	"context"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
)

// JournalSvcFacade is the ledger engine contract. Entries move
// Draft -> Posted -> Void (or Draft -> Void); Posted is the only state that
// feeds balances, and voiding is the only sanctioned correction for a posted
// entry.
type JournalSvcFacade interface {
	// PostEntry validates and commits a journal entry as Posted. Fails with
	// apperrors.ErrEmptyLines, apperrors.ErrUnknownAccount,
	// apperrors.ErrInactiveAccount or apperrors.ErrUnbalanced; nothing is
	// persisted on any validation failure.
	PostEntry(ctx context.Context, businessID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// SaveDraft stores an entry as Draft without affecting balances. Structural
	// validation applies; the balance check is deferred to PostDraft.
	SaveDraft(ctx context.Context, businessID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostDraft runs full posting validation on a stored draft and flips it to Posted.
	PostDraft(ctx context.Context, businessID string, entryID string, userID string) (*domain.JournalEntry, error)

	// VoidEntry flips an entry to Void. Fails with apperrors.ErrAlreadyVoid or,
	// when a line participates in a locked reconciliation,
	// apperrors.ErrPeriodLocked; a reconciled entry is corrected by a new
	// offsetting entry instead.
	VoidEntry(ctx context.Context, businessID string, entryID string, userID string) error

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, businessID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, businessID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
