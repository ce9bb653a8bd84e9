package domain

// AccountCategory defines the fundamental accounting category of an account.
// The set is closed: every category carries its normal balance side as static
// data so sign logic can never fall through to a default.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
)

// BalanceSide is the debit/credit direction in which an account's balance is
// conventionally reported as positive.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalBalance returns the side on which the category's balance is positive.
// The boolean is false for an unknown category.
func (c AccountCategory) NormalBalance() (BalanceSide, bool) {
	switch c {
	case Asset, Expense:
		return DebitSide, true
	case Liability, Equity, Revenue:
		return CreditSide, true
	default:
		return "", false
	}
}

// IsValid reports whether c is one of the five known categories.
func (c AccountCategory) IsValid() bool {
	_, ok := c.NormalBalance()
	return ok
}

// AccountCategories lists every category, in conventional statement order.
func AccountCategories() []AccountCategory {
	return []AccountCategory{Asset, Liability, Equity, Revenue, Expense}
}

// Account is a node in the chart-of-accounts tree.
type Account struct {
	AccountID       string          `json:"accountID"`  // Primary key (UUID)
	BusinessID      string          `json:"businessID"` // Tenancy scope (NON-NULL)
	Code            string          `json:"code"`       // Unique per business
	Name            string          `json:"name"`
	Category        AccountCategory `json:"category"`
	ParentAccountID string          `json:"parentAccountID"` // Empty when root
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"` // Soft deactivation; never hard-deleted once referenced
	AuditFields
}
