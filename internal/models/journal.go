package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus for DB storage.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// JournalEntry represents a journal entry header row.
type JournalEntry struct {
	EntryID     string      `db:"entry_id"`
	BusinessID  string      `db:"business_id"`
	EntryDate   time.Time   `db:"entry_date"`
	Description string      `db:"description"`
	Reference   string      `db:"reference"` // Nullable
	Status      EntryStatus `db:"status"`
	AuditFields
}

// JournalEntryLine represents a single line row within an entry.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"` // Nullable
	AuditFields
}
