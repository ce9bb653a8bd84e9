package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/smallbooks/bookkeeping_app/internal/core/ports/repositories"
)

// reportingRepository implements the reporting queries. Every query sums
// posted lines from source; no cached balance is consulted anywhere.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository.
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepositoryFacade = (*reportingRepository)(nil)

// GetAccountNet returns sum(debit) - sum(credit) across posted lines for the
// account, with entry date on or before asOf.
func (r *reportingRepository) GetAccountNet(ctx context.Context, businessID string, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND e.entry_date <= $3;
	`

	var net decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, businessID, asOf).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("error querying net for account %s: %w", accountID, err)
	}
	return net, nil
}

// GetLedgerLines returns the account's posted lines in [from, to], ordered by
// entry date with creation order as the tie-breaker.
func (r *reportingRepository) GetLedgerLines(ctx context.Context, businessID string, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, e.entry_date, e.description, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND e.entry_date >= $3
			AND e.entry_date <= $4
		ORDER BY e.entry_date, e.created_at, l.created_at, l.line_id;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(&line.LineID, &line.EntryID, &line.Date, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("error scanning ledger line for account %s: %w", accountID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines for account %s: %w", accountID, err)
	}

	return lines, nil
}

// GetTrialBalanceData retrieves raw per-account debit and credit sums for all
// active accounts as of a specific date. Accounts with no activity still
// appear, with zero sums.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.category,
			COALESCE(s.total_debit, 0) AS total_debit,
			COALESCE(s.total_credit, 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, SUM(l.debit) AS total_debit, SUM(l.credit) AS total_credit
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.business_id = $2
				AND e.status = 'POSTED'
				AND e.entry_date <= $1
			GROUP BY l.account_id
		) s ON s.account_id = a.account_id
		WHERE a.business_id = $2
			AND a.is_active = TRUE
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, asOf, businessID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var category string
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&category,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.Category = domain.AccountCategory(category)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return result, nil
}

// GetProfitAndLossData retrieves per-account net amounts for revenue and
// expense accounts over the period, signed positive in each category's normal
// direction.
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, businessID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.category,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND e.business_id = $3
			AND e.status = 'POSTED'
			AND a.category IN ('REVENUE', 'EXPENSE')
		GROUP BY a.category, a.account_id, a.code, a.name
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, from, to, businessID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying profit and loss data: %w", err)
	}
	defer rows.Close()

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for rows.Next() {
		var category string
		var amount domain.AccountAmount
		var net decimal.Decimal
		if err := rows.Scan(&category, &amount.AccountID, &amount.Code, &amount.Name, &net); err != nil {
			return nil, nil, fmt.Errorf("error scanning profit and loss row: %w", err)
		}

		switch category {
		case string(domain.Revenue):
			// Revenue is credit-normal; flip so growth reads positive.
			amount.NetAmount = net.Neg()
			revenue = append(revenue, amount)
		case string(domain.Expense):
			amount.NetAmount = net
			expenses = append(expenses, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}

	return revenue, expenses, nil
}

// GetBalanceSheetData retrieves per-account net amounts for asset, liability
// and equity accounts as of a specific date, signed positive in each
// category's normal direction.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, businessID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.category,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.entry_date <= $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND a.category IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.category, a.account_id, a.code, a.name
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, asOf, businessID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for rows.Next() {
		var category string
		var amount domain.AccountAmount
		var net decimal.Decimal
		if err := rows.Scan(&category, &amount.AccountID, &amount.Code, &amount.Name, &net); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		switch category {
		case string(domain.Asset):
			amount.NetAmount = net
			assets = append(assets, amount)
		case string(domain.Liability):
			amount.NetAmount = net.Neg()
			liabilities = append(liabilities, amount)
		case string(domain.Equity):
			amount.NetAmount = net.Neg()
			equity = append(equity, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	return assets, liabilities, equity, nil
}

// GetCashMovements returns, per posted entry touching the cash account in
// [from, to], the entry's net effect on that account with debit positive.
func (r *reportingRepository) GetCashMovements(ctx context.Context, businessID string, cashAccountID string, from, to time.Time) ([]domain.CashMovement, error) {
	query := `
		SELECT e.entry_id, e.entry_date, e.description, SUM(l.debit - l.credit) AS net
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
			AND e.business_id = $2
			AND e.status = 'POSTED'
			AND e.entry_date BETWEEN $3 AND $4
		GROUP BY e.entry_id, e.entry_date, e.description
		ORDER BY e.entry_date, e.entry_id;
	`

	rows, err := r.Pool.Query(ctx, query, cashAccountID, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying cash movements for account %s: %w", cashAccountID, err)
	}
	defer rows.Close()

	movements := []domain.CashMovement{}
	for rows.Next() {
		var m domain.CashMovement
		if err := rows.Scan(&m.EntryID, &m.Date, &m.Description, &m.Amount); err != nil {
			return nil, fmt.Errorf("error scanning cash movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash movement rows: %w", err)
	}

	return movements, nil
}
