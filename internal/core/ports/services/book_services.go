package services

import (
	"context"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
)

// BookReaderSvc defines read operations for book data
type BookReaderSvc interface {
	// GetBookByID retrieves a specific book by its ID.
	GetBookByID(ctx context.Context, bookID string) (*domain.Book, error)

	// ListBooks retrieves a paginated list of books.
	ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error)
}

// BookWriterSvc defines write operations for book data
type BookWriterSvc interface {
	// CreateBook persists a new book.
	CreateBook(ctx context.Context, name, description, creatorUserID string) (*domain.Book, error)

	// DeactivateBook marks a book as inactive.
	DeactivateBook(ctx context.Context, bookID string, requestingUserID string) error

	// ActivateBook marks a book as active.
	ActivateBook(ctx context.Context, bookID string, requestingUserID string) error
}

// BookGuardSvc defines precondition checks other services run before mutating book-scoped data
type BookGuardSvc interface {
	// EnsureActiveBook returns an error when the book does not exist or is inactive.
	EnsureActiveBook(ctx context.Context, bookID string) error
}

// BookSvcFacade combines all book-related service interfaces
// This is a facade for clients that need access to all operations
type BookSvcFacade interface {
	BookReaderSvc
	BookWriterSvc
	BookGuardSvc
}
