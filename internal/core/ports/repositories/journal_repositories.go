package repositories

import (
	"context"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific journal entry (without lines) by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByBook retrieves a paginated list of entries for a given book using token-based pagination.
	// An optional status narrows the result. It returns the entries, a token for the next page, and an error.
	ListEntriesByBook(ctx context.Context, bookID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entry data
type JournalEntryWriter interface {
	// SaveEntry persists a new journal entry and its lines within a transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// ReplaceEntry updates an entry's header and replaces its lines within a transaction.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus moves an entry from one lifecycle status to another within a transaction
	// that serializes concurrent status changes in the same book. It fails with a state
	// transition error when the entry is no longer in the expected status.
	UpdateEntryStatus(ctx context.Context, bookID string, entryID string, from domain.EntryStatus, to domain.EntryStatus, updatedBy string, now time.Time) error

	// SaveReversal persists a reversing entry with its lines and links it to the original entry,
	// all within one transaction serialized per book.
	SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, updatedBy string, now time.Time) error

	// DeleteEntry removes an entry and its lines permanently.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalLineReader defines read operations for journal line data
type JournalLineReader interface {
	// FindLinesByEntryID retrieves all lines associated with a single entry ID.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entry IDs, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListLedgerLines retrieves all approved lines touching an account, ordered by
	// entry date then entry ID, joined with their entry header data. The running
	// balance on the returned lines is left zero for the caller to compute.
	ListLedgerLines(ctx context.Context, bookID string, accountID string) ([]domain.LedgerLine, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	JournalLineReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
