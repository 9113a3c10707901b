package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	portsrepo "github.com/crmsuite/crm_ledger_backend/internal/core/ports/repositories"
	"github.com/crmsuite/crm_ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, book_id, entry_date, description, status, attachment_ref,
       original_entry_id, reversing_entry_id,
       created_at, created_by, last_updated_at, last_updated_by`

// scanEntry scans one journal entry row, normalizing the nullable link columns.
func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var originalID sql.NullString
	var reversingID sql.NullString

	err := row.Scan(
		&e.EntryID,
		&e.BookID,
		&e.EntryDate,
		&e.Description,
		&e.Status,
		&e.AttachmentRef,
		&originalID,
		&reversingID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	if originalID.Valid {
		e.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		e.ReversingEntryID = &reversingID.String
	}
	return e, nil
}

// insertEntryTx inserts an entry header and its lines inside an open transaction.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.BookID,
		entry.EntryDate,
		entry.Description,
		entry.Status,
		entry.AttachmentRef,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}
	return nil
}

// SaveEntry persists a new journal entry and its lines within a DB transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, entry, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}
	return &entry, nil
}

const lineColumns = `line_id, entry_id, account_id, debit, credit, created_at, created_by, last_updated_at, last_updated_by`

func scanLine(row pgx.Row) (domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.Debit,
		&l.Credit,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// FindLinesByEntryID retrieves all lines associated with a specific entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return lines, nil
}

// FindLinesByEntryIDs retrieves all lines for a given list of entry IDs, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_id;
	`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry IDs", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		linesMap[l.EntryID] = append(linesMap[l.EntryID], l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	// Ensure even entries with no lines have an entry (empty slice)
	for _, eid := range entryIDs {
		if _, exists := linesMap[eid]; !exists {
			linesMap[eid] = []domain.JournalLine{}
		}
	}

	return linesMap, nil
}

// ListEntriesByBook retrieves a paginated list of journal entries for a specific book
// using token-based pagination. It returns the entries, a token for the next page
// (if any), and an error.
func (r *PgxJournalRepository) ListEntriesByBook(ctx context.Context, bookID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
	`
	filterClause := `WHERE book_id = $1`
	args := []any{bookID}

	if status != nil {
		args = append(args, *status)
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable: entry_date DESC with created_at DESC as tie-breaker.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres.
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for book "+bookID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		e, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for book "+bookID, scanErr)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for book "+bookID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		// The token points to the last item included in this response page.
		lastEntry := entries[limit-1]
		newToken := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &newToken
		entries = entries[:limit]
	}

	return entries, nextTokenVal, nil
}

// ReplaceEntry updates an entry's header and replaces all of its lines within a DB transaction.
func (r *PgxJournalRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    attachment_ref = $4,
		    status = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.AttachmentRef,
		entry.Status,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entry.EntryID + " not found for update")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus moves an entry between lifecycle statuses. The book row is locked
// for the duration of the transaction so concurrent status changes in the same book
// are applied one at a time. The update is guarded by the expected current status.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, bookID string, entryID string, from domain.EntryStatus, to domain.EntryStatus, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockBookForUpdate(ctx, tx, bookID); err != nil {
		return err
	}

	query := `
		UPDATE journal_entries
		SET status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND book_id = $2 AND status = $3;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, bookID, from, to, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for entry "+entryID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the entry is missing or it moved out of the expected status.
		var current domain.EntryStatus
		err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1 AND book_id = $2;`, entryID, bookID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("journal entry " + entryID + " not found")
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to check status of entry "+entryID, err)
		}
		return apperrors.NewStateTransitionError("entry " + entryID + " is " + string(current) + ", expected " + string(from))
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists a reversing entry and links it to the original within one
// transaction. The original must still be APPROVED and not yet reversed.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockBookForUpdate(ctx, tx, reversing.BookID); err != nil {
		return err
	}

	linkQuery := `
		UPDATE journal_entries
		SET reversing_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND book_id = $2 AND status = 'APPROVED' AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, originalEntryID, reversing.BookID, reversing.EntryID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link reversal for entry "+originalEntryID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		var current domain.EntryStatus
		var existingReversal sql.NullString
		err := tx.QueryRow(ctx, `SELECT status, reversing_entry_id FROM journal_entries WHERE entry_id = $1 AND book_id = $2;`, originalEntryID, reversing.BookID).Scan(&current, &existingReversal)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("journal entry " + originalEntryID + " not found")
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to check reversal state of entry "+originalEntryID, err)
		}
		if existingReversal.Valid {
			return apperrors.NewConflictError("entry " + originalEntryID + " is already reversed by " + existingReversal.String)
		}
		return apperrors.NewStateTransitionError("entry " + originalEntryID + " is " + string(current) + ", only APPROVED entries can be reversed")
	}

	if err := insertEntryTx(ctx, tx, reversing, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes an entry and its lines. Approved entries are immutable and
// cannot be deleted.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status != 'APPROVED';`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check existence of entry "+entryID, err)
		}
		if exists {
			return apperrors.NewConflictError("approved entry " + entryID + " cannot be deleted")
		}
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found")
	}

	return r.Commit(ctx, tx)
}

// ListLedgerLines retrieves all approved lines touching an account in posting order.
// The Balance field of the returned lines is left zero; the service computes the
// running balance.
func (r *PgxJournalRepository) ListLedgerLines(ctx context.Context, bookID string, accountID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT e.entry_id, e.entry_date, e.description, l.debit, l.credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.book_id = $1 AND l.account_id = $2 AND e.status = 'APPROVED'
		ORDER BY e.entry_date ASC, e.entry_id ASC, l.line_id ASC;
	`

	rows, err := r.Pool.Query(ctx, query, bookID, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(
			&l.EntryID,
			&l.EntryDate,
			&l.Description,
			&l.Debit,
			&l.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line row for account "+accountID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger line rows for account "+accountID, err)
	}

	return lines, nil
}
