package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/smallbooks/bookkeeping_app/internal/utils/pagination"
)

const entryColumns = `entry_id, business_id, entry_date, description, reference, status, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// scanEntry scans one entry header row, mapping the nullable reference column.
func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	var reference sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.BusinessID,
		&m.EntryDate,
		&m.Description,
		&reference,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if reference.Valid {
		m.Reference = reference.String
	}
	return mapping.ToDomainEntry(m), nil
}

// scanLine scans one entry line row.
func scanLine(row pgx.Row) (models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveEntry persists an entry header and all of its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelEntry(entry)
	var reference sql.NullString
	if modelEntry.Reference != "" {
		reference = sql.NullString{String: modelEntry.Reference, Valid: true}
	}

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.BusinessID,
		modelEntry.EntryDate,
		modelEntry.Description,
		reference,
		modelEntry.Status,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+modelEntry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		modelLine := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.Description,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkEntryPosted flips a draft entry to Posted. The status guard lives in the
// UPDATE itself so a concurrent post or void cannot produce a double flip.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`

	cmdTag, err := r.Pool.Exec(ctx, query, entryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindEntryByID(ctx, entryID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrConflict, entryID)
	}
	return nil
}

// VoidEntry flips an entry to Void inside one transaction. The transaction
// takes an advisory lock per affected account so the locked-reconciliation
// check and the status flip are serialized against a concurrent Lock on the
// same accounts. Rows are never deleted.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Advisory locks keyed by the entry's accounts, in stable order to avoid
	// deadlock between concurrent voids.
	lockQuery := `
		SELECT pg_advisory_xact_lock(hashtext(account_id))
		FROM (
			SELECT DISTINCT account_id
			FROM journal_entry_lines
			WHERE entry_id = $1
			ORDER BY account_id
		) accounts;
	`
	if _, err := tx.Exec(ctx, lockQuery, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire account locks for entry "+entryID, err)
	}

	// Lines already claimed by a locked reconciliation freeze the entry.
	var lockedMatch bool
	lockedQuery := `
		SELECT EXISTS (
			SELECT 1
			FROM reconciliation_matches m
			JOIN reconciliations r ON r.reconciliation_id = m.reconciliation_id
			JOIN journal_entry_lines l ON l.line_id = m.line_id
			WHERE l.entry_id = $1 AND r.status = 'LOCKED'
		);
	`
	if err := tx.QueryRow(ctx, lockedQuery, entryID).Scan(&lockedMatch); err != nil {
		return apperrors.NewAppError(500, "failed to check reconciliation locks for entry "+entryID, err)
	}
	if lockedMatch {
		return fmt.Errorf("%w: entry %s has lines in a locked reconciliation", apperrors.ErrPeriodLocked, entryID)
	}

	updateQuery := `
		UPDATE journal_entries
		SET status = 'VOID', last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status != 'VOID';
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, entryID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check entry "+entryID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyVoid, entryID)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines for an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalEntryLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}

	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines
		WHERE entry_id = ANY($1)
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry batch", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalEntryLine)
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		linesMap[m.EntryID] = append(linesMap[m.EntryID], mapping.ToDomainLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	return linesMap, nil
}

// ListEntries retrieves a paginated list of entries for a business using
// token-based pagination, newest entry date first with created_at as the
// tie-breaker.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, businessID string, limit int, nextToken *string, includeVoid bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE business_id = $1
	`
	if !includeVoid {
		baseQuery += ` AND status != 'VOID'`
	}
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []any{businessID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for business "+businessID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for business "+businessID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for business "+businessID, err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}
