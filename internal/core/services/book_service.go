package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
)

// bookService provides operations on accounting books.
type bookService struct {
	BaseService
	bookRepo portsrepo.BookRepositoryFacade
}

// NewBookService creates a new BookService.
func NewBookService(bookRepo portsrepo.BookRepositoryFacade) portssvc.BookSvcFacade {
	return &bookService{
		bookRepo: bookRepo,
	}
}

// Ensure bookService implements the portssvc.BookSvcFacade interface
var _ portssvc.BookSvcFacade = (*bookService)(nil)

// CreateBook persists a new active book.
func (s *bookService) CreateBook(ctx context.Context, name, description, creatorUserID string) (*domain.Book, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: book name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	book := domain.Book{
		BookID:      uuid.NewString(),
		Name:        name,
		Description: description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bookRepo.SaveBook(ctx, book); err != nil {
		s.LogError(ctx, err, "Failed to save book", slog.String("book_id", book.BookID))
		return nil, fmt.Errorf("failed to save book: %w", err)
	}

	s.LogInfo(ctx, "Book created successfully", slog.String("book_id", book.BookID))
	return &book, nil
}

// GetBookByID retrieves a specific book by its ID.
func (s *bookService) GetBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find book by ID", slog.String("book_id", bookID))
		}
		return nil, err
	}
	return book, nil
}

// ListBooks retrieves a paginated list of books.
func (s *bookService) ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error) {
	books, err := s.bookRepo.ListBooks(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list books")
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}
	return books, nil
}

// DeactivateBook marks a book as inactive. Entries in an inactive book stay
// readable but all mutations are refused.
func (s *bookService) DeactivateBook(ctx context.Context, bookID string, requestingUserID string) error {
	if err := s.bookRepo.SetBookActive(ctx, bookID, false, requestingUserID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate book", slog.String("book_id", bookID))
		return err
	}
	s.LogInfo(ctx, "Book deactivated", slog.String("book_id", bookID))
	return nil
}

// ActivateBook marks a book as active again.
func (s *bookService) ActivateBook(ctx context.Context, bookID string, requestingUserID string) error {
	if err := s.bookRepo.SetBookActive(ctx, bookID, true, requestingUserID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to activate book", slog.String("book_id", bookID))
		return err
	}
	s.LogInfo(ctx, "Book activated", slog.String("book_id", bookID))
	return nil
}

// EnsureActiveBook returns an error when the book does not exist or is inactive.
func (s *bookService) EnsureActiveBook(ctx context.Context, bookID string) error {
	book, err := s.bookRepo.FindBookByID(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.IsActive {
		return fmt.Errorf("%w: book %s is inactive", apperrors.ErrConflict, bookID)
	}
	return nil
}
