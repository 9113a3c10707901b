package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
//
// Lifecycle: DRAFT -> SUBMITTED -> APPROVED | REJECTED.
// APPROVED and REJECTED are terminal; only approved entries contribute to
// ledgers and reports.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Submitted EntryStatus = "SUBMITTED"
	Approved  EntryStatus = "APPROVED"
	Rejected  EntryStatus = "REJECTED"
)

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Draft:
		return next == Submitted
	case Submitted:
		return next == Approved || next == Rejected
	}
	return false
}

// JournalLine is a single debit or credit against an account.
// Exactly one of Debit and Credit is non-zero; both are non-negative.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (UUID)
	EntryID   string          `json:"entryID"`   // FK -> journal_entries.entry_id
	AccountID string          `json:"accountID"` // FK -> accounts.account_id
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	AuditFields
}

// JournalEntry is a balanced set of journal lines recorded against a book.
type JournalEntry struct {
	EntryID       string      `json:"entryID"` // Primary Key (UUID)
	BookID        string      `json:"bookID"`  // FK -> books.book_id (NON-NULL)
	EntryDate     time.Time   `json:"entryDate"`
	Description   string      `json:"description"`
	Status        EntryStatus `json:"status"`
	AttachmentRef string      `json:"attachmentRef"` // Opaque reference to an uploaded document, optional

	// Reversal linkage. An entry created by reverseEntry points back at the
	// entry it corrects via OriginalEntryID; the corrected entry points
	// forward via ReversingEntryID.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// LedgerLine is one row of a derived account ledger: a journal line of an
// approved entry joined with its entry header, plus the running balance after
// applying it.
type LedgerLine struct {
	EntryID     string          `json:"entryID"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}
