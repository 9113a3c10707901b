package repositories

import (
	"context"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// BookReader defines read operations for book data
type BookReader interface {
	// FindBookByID retrieves a specific book by its ID.
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves a paginated list of books.
	ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error)
}

// BookWriter defines write operations for book data
type BookWriter interface {
	// SaveBook persists a new book.
	SaveBook(ctx context.Context, book domain.Book) error

	// UpdateBook updates an existing book's details.
	UpdateBook(ctx context.Context, book domain.Book) error

	// SetBookActive toggles the active flag on a book.
	SetBookActive(ctx context.Context, bookID string, isActive bool, updatedBy string, now time.Time) error
}

// BookRepositoryFacade combines all book-related repository interfaces
type BookRepositoryFacade interface {
	BookReader
	BookWriter
}

// BookRepositoryWithTx extends BookRepositoryFacade with transaction capabilities
type BookRepositoryWithTx interface {
	BookRepositoryFacade
	TransactionManager
}
