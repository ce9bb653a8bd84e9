package models

// AccountCategory mirrors domain.AccountCategory for DB storage.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// Account represents a chart-of-accounts row.
// Note: ParentAccountID uses string for the nullable foreign key; the
// repository maps empty string to NULL.
type Account struct {
	AccountID       string          `db:"account_id"`
	BusinessID      string          `db:"business_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	Category        AccountCategory `db:"category"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}
