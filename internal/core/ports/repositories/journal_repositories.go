package repositories

import (
	"context"
	"time"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines for a single entry, in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListEntries retrieves a paginated list of entries for a business using
	// token-based pagination. Void entries are included only when includeVoid is set.
	ListEntries(ctx context.Context, businessID string, limit int, nextToken *string, includeVoid bool) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveEntry persists an entry header and all of its lines atomically.
	// A partially written entry must never be observable to readers.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// MarkEntryPosted flips a Draft entry to Posted. Returns
	// apperrors.ErrConflict when the entry is no longer a draft.
	MarkEntryPosted(ctx context.Context, entryID string, userID string, now time.Time) error

	// VoidEntry flips an entry's status to Void, guarding against lines that
	// participate in a locked reconciliation (apperrors.ErrPeriodLocked) and
	// against double voids (apperrors.ErrAlreadyVoid). Rows are never deleted.
	VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}
