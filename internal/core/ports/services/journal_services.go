package services

import (
	"context"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entry data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry, with its lines, by its ID.
	GetEntryByID(ctx context.Context, bookID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries in a book.
	ListEntries(ctx context.Context, bookID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entry data
type JournalWriterSvc interface {
	// CreateEntry validates and persists a new journal entry with its lines.
	CreateEntry(ctx context.Context, bookID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry updates a draft entry's header and lines.
	UpdateEntry(ctx context.Context, bookID string, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error)

	// DeleteEntry removes an unapproved entry.
	DeleteEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) error
}

// JournalLifecycleSvc defines status transitions for journal entries
type JournalLifecycleSvc interface {
	// SubmitEntry moves a draft entry to SUBMITTED.
	SubmitEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ApproveEntry moves a submitted entry to APPROVED, making it visible to ledgers and reports.
	ApproveEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// RejectEntry moves a submitted entry to REJECTED.
	RejectEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates an approved reversal of an approved entry and links the pair.
	ReverseEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalLifecycleSvc
}
