package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account in a trial balance report.
// Exactly one of Debit/Credit is non-zero, chosen by the sign of the
// account's net activity.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Category    AccountCategory `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every active account's balance as of a date.
// TotalDebit always equals TotalCredit for a consistent ledger.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report for a period.
type PAndLReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
}

// BalanceSheetReport represents a balance sheet as of a date.
// RetainedEarnings is the period's net P&L rolled up into equity so that
// TotalAssets == TotalLiabilities + TotalEquity.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// CashFlowActivity buckets a cash movement by the activity that produced it.
type CashFlowActivity string

const (
	Operating CashFlowActivity = "OPERATING"
	Investing CashFlowActivity = "INVESTING"
	Financing CashFlowActivity = "FINANCING"
)

// CashMovement is one posted entry's net effect on the designated cash account.
type CashMovement struct {
	EntryID     string           `json:"entryID"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"` // Signed: debit to cash is positive
	Activity    CashFlowActivity `json:"activity"`
}

// CashFlowReport represents a cash flow statement for a period.
type CashFlowReport struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Operating decimal.Decimal `json:"operating"`
	Investing decimal.Decimal `json:"investing"`
	Financing decimal.Decimal `json:"financing"`
	Net       decimal.Decimal `json:"net"`
	Movements []CashMovement  `json:"movements"`
}
