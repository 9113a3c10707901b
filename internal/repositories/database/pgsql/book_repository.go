package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBookRepository struct {
	BaseRepository
}

// newPgxBookRepository creates a new repository for book data.
func newPgxBookRepository(pool *pgxpool.Pool) portsrepo.BookRepositoryWithTx {
	return &PgxBookRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBookRepository implements portsrepo.BookRepositoryWithTx
var _ portsrepo.BookRepositoryWithTx = (*PgxBookRepository)(nil)

const fullBookSelectQuery = `
SELECT
	b.book_id, b.name, b.description, b.is_active,
	b.created_at, b.created_by, b.last_updated_at, b.last_updated_by
FROM books b
`

// getBooks runs the shared select with the given filter and scans the result.
func (r *PgxBookRepository) getBooks(ctx context.Context, filterQuery string, args ...any) ([]domain.Book, error) {
	query := fullBookSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query books", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.BookID,
			&b.Name,
			&b.Description,
			&b.IsActive,
			&b.CreatedAt,
			&b.CreatedBy,
			&b.LastUpdatedAt,
			&b.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan book row", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating book rows", err)
	}

	return books, nil
}

func (r *PgxBookRepository) SaveBook(ctx context.Context, book domain.Book) error {
	query := `
		INSERT INTO books (
			book_id, name, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		book.BookID,
		book.Name,
		book.Description,
		book.IsActive,
		book.CreatedAt,
		book.CreatedBy,
		book.LastUpdatedAt,
		book.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("book ID " + book.BookID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save book "+book.BookID, err)
	}
	return nil
}

func (r *PgxBookRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `WHERE b.book_id = $1`
	books, err := r.getBooks(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &books[0], nil
}

func (r *PgxBookRepository) ListBooks(ctx context.Context, limit int, offset int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `ORDER BY b.name LIMIT $1 OFFSET $2;`
	return r.getBooks(ctx, query, limit, offset)
}

func (r *PgxBookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	query := `
		UPDATE books
		SET name = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE book_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		book.BookID,
		book.Name,
		book.Description,
		book.LastUpdatedAt,
		book.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update book "+book.BookID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("book " + book.BookID + " not found for update")
	}
	return nil
}

// SetBookActive toggles the active flag, only touching rows that actually change state.
func (r *PgxBookRepository) SetBookActive(ctx context.Context, bookID string, isActive bool, updatedBy string, now time.Time) error {
	query := `
		UPDATE books
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE book_id = $1 AND is_active != $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, bookID, isActive, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update book status "+bookID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the book is missing or it is already in the requested state.
		if _, findErr := r.FindBookByID(ctx, bookID); findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return findErr
		}
		return apperrors.NewConflictError("book " + bookID + " is already in the requested state")
	}

	return nil
}

// lockBookForUpdate takes a row lock on the book inside the given transaction.
// Status changes within a book are serialized through this lock.
func lockBookForUpdate(ctx context.Context, tx pgx.Tx, bookID string) error {
	var lockedID string
	err := tx.QueryRow(ctx, `SELECT book_id FROM books WHERE book_id = $1 FOR UPDATE;`, bookID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("book " + bookID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock book "+bookID, err)
	}
	return nil
}
