package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
// Legal transitions: Draft -> Posted -> Void, and Draft -> Void.
// Posted is the only state that feeds balances; Void is terminal.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Posted || next == Void
	case Posted:
		return next == Void
	default:
		return false
	}
}

// JournalEntry is an immutable transaction header owning an ordered set of lines.
type JournalEntry struct {
	EntryID     string             `json:"entryID"`    // Primary key (UUID)
	BusinessID  string             `json:"businessID"` // Tenancy scope (NON-NULL)
	EntryDate   time.Time          `json:"entryDate"`  // Date the event occurred
	Description string             `json:"description"`
	Reference   string             `json:"reference"` // Optional external reference
	Status      EntryStatus        `json:"status"`
	Lines       []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is a single line within an entry, affecting one account.
// Debit and Credit are both >= 0; the net effect is debit minus credit.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`  // Primary key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry (Not Null)
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	AuditFields
}

// NetAmount returns debit minus credit for the line.
func (l JournalEntryLine) NetAmount() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// LedgerLine is one row of an account ledger, produced by the balance
// aggregator with a running total carried forward in date order.
type LedgerLine struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}
