package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/smallbooks/bookkeeping_app/internal/models"
	"github.com/smallbooks/bookkeeping_app/internal/utils/accounting"
	"github.com/smallbooks/bookkeeping_app/internal/utils/mapping"
)

const reconciliationColumns = `reconciliation_id, business_id, account_id, statement_date, closing_balance, status, created_at, created_by, last_updated_at, last_updated_by`

const matchColumns = `match_id, reconciliation_id, line_id, statement_date, statement_desc, statement_amount, tie_broken, created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// scanReconciliation scans one reconciliation row.
func scanReconciliation(row pgx.Row) (domain.Reconciliation, error) {
	var m models.Reconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.BusinessID,
		&m.AccountID,
		&m.StatementDate,
		&m.ClosingBalance,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Reconciliation{}, err
	}
	return mapping.ToDomainReconciliation(m), nil
}

// scanMatch scans one match row.
func scanMatch(row pgx.Row) (domain.Match, error) {
	var m models.ReconciliationMatch
	err := row.Scan(
		&m.MatchID,
		&m.ReconciliationID,
		&m.LineID,
		&m.StatementDate,
		&m.StatementDesc,
		&m.StatementAmount,
		&m.TieBroken,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Match{}, err
	}
	return mapping.ToDomainMatch(m), nil
}

// SaveReconciliation persists a new reconciliation record.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(rec)
	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.BusinessID,
		m.AccountID,
		m.StatementDate,
		m.ClosingBalance,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}
	return nil
}

// FindReconciliationByID retrieves a reconciliation record.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1;`

	rec, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation by ID %s: %w", reconciliationID, err)
	}
	return &rec, nil
}

// ListReconciliations retrieves an account's reconciliation records, newest
// statement first.
func (r *PgxReconciliationRepository) ListReconciliations(ctx context.Context, businessID string, accountID string) ([]domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE business_id = $1 AND account_id = $2
		ORDER BY statement_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, businessID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations for account %s: %w", accountID, err)
	}
	defer rows.Close()

	recs := []domain.Reconciliation{}
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row for account %s: %w", accountID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows for account %s: %w", accountID, err)
	}

	return recs, nil
}

// ListMatches retrieves all matches recorded against a reconciliation.
func (r *PgxReconciliationRepository) ListMatches(ctx context.Context, reconciliationID string) ([]domain.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM reconciliation_matches
		WHERE reconciliation_id = $1
		ORDER BY statement_date, created_at, match_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for reconciliation %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row for reconciliation %s: %w", reconciliationID, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows for reconciliation %s: %w", reconciliationID, err)
	}

	return matches, nil
}

// FindUnmatchedPostedLines returns the account's posted lines in [from, to]
// that no reconciliation match references yet, ordered by entry date then line
// id so candidate selection is deterministic.
func (r *PgxReconciliationRepository) FindUnmatchedPostedLines(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, e.entry_date, e.description, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND e.entry_date >= $3
			AND e.entry_date <= $4
			AND NOT EXISTS (
				SELECT 1 FROM reconciliation_matches m WHERE m.line_id = l.line_id
			)
		ORDER BY e.entry_date, l.line_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmatched lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(&line.LineID, &line.EntryID, &line.Date, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan unmatched line for account %s: %w", accountID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unmatched lines for account %s: %w", accountID, err)
	}

	return lines, nil
}

// FindUnmatchedPostedLine returns one posted, not yet matched line on the
// account, or apperrors.ErrNotFound.
func (r *PgxReconciliationRepository) FindUnmatchedPostedLine(ctx context.Context, businessID string, accountID string, lineID string) (*domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, e.entry_date, e.description, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.line_id = $1
			AND l.account_id = $2
			AND e.business_id = $3
			AND e.status = 'POSTED'
			AND NOT EXISTS (
				SELECT 1 FROM reconciliation_matches m WHERE m.line_id = l.line_id
			);
	`

	var line domain.LedgerLine
	err := r.Pool.QueryRow(ctx, query, lineID, accountID, businessID).
		Scan(&line.LineID, &line.EntryID, &line.Date, &line.Description, &line.Debit, &line.Credit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unmatched line %s: %w", lineID, err)
	}
	return &line, nil
}

// SaveMatches persists a batch of matches in one transaction.
func (r *PgxReconciliationRepository) SaveMatches(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO reconciliation_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, match := range matches {
		m := mapping.ToModelMatch(match)
		batch.Queue(query,
			m.MatchID,
			m.ReconciliationID,
			m.LineID,
			m.StatementDate,
			m.StatementDesc,
			m.StatementAmount,
			m.TieBroken,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute match insert batch", err)
	}

	return r.Commit(ctx, tx)
}

// DeleteMatch removes a match row.
func (r *PgxReconciliationRepository) DeleteMatch(ctx context.Context, matchID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM reconciliation_matches WHERE match_id = $1;`, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockReconciliation flips the record to Locked inside one transaction. An
// advisory lock on the account serializes this against VoidEntry, which keys
// its lock the same way, so the balance verified here cannot be changed by a
// void that commits between the check and the flip.
func (r *PgxReconciliationRepository) LockReconciliation(ctx context.Context, rec domain.Reconciliation, category domain.AccountCategory, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, rec.AccountID); err != nil {
		return apperrors.NewAppError(500, "failed to acquire account lock for reconciliation "+rec.ReconciliationID, err)
	}

	// Re-check status under the lock.
	var status string
	statusQuery := `SELECT status FROM reconciliations WHERE reconciliation_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, statusQuery, rec.ReconciliationID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read reconciliation "+rec.ReconciliationID, err)
	}
	if status == string(models.ReconciliationLocked) {
		return fmt.Errorf("%w: reconciliation %s", apperrors.ErrAlreadyLocked, rec.ReconciliationID)
	}

	// Ledger balance at the statement date, from source.
	var net decimal.Decimal
	netQuery := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND e.entry_date <= $3;
	`
	if err := tx.QueryRow(ctx, netQuery, rec.AccountID, rec.BusinessID, rec.StatementDate).Scan(&net); err != nil {
		return apperrors.NewAppError(500, "failed to compute ledger balance for reconciliation "+rec.ReconciliationID, err)
	}

	balance, err := accounting.ApplyNormalSign(net, category)
	if err != nil {
		return err
	}
	if !accounting.EqualWithinEpsilon(balance, rec.ClosingBalance) {
		return fmt.Errorf("%w: ledger balance %s, statement closing balance %s",
			apperrors.ErrUnbalancedClosingBalance, balance.String(), rec.ClosingBalance.String())
	}

	updateQuery := `
		UPDATE reconciliations
		SET status = 'LOCKED', last_updated_at = $2, last_updated_by = $3
		WHERE reconciliation_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, rec.ReconciliationID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to lock reconciliation "+rec.ReconciliationID, err)
	}

	return r.Commit(ctx, tx)
}
