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
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
	"github.com/crmsuite/crm_ledger_backend/internal/utils/accounting"
)

// Sentinel errors for journal entry validation. All unwrap to ErrValidation so
// handlers can map them uniformly while tests can assert the precise cause.
var (
	ErrEntryUnbalanced    = fmt.Errorf("%w: entry debits and credits do not balance", apperrors.ErrValidation)
	ErrEntryMinLines      = fmt.Errorf("%w: entry needs at least two lines with amounts", apperrors.ErrValidation)
	ErrEntryMinAccounts   = fmt.Errorf("%w: entry needs at least two distinct accounts", apperrors.ErrValidation)
	ErrDescriptionMissing = fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	ErrAccountNotFound    = fmt.Errorf("%w: account referenced by entry", apperrors.ErrNotFound)
)

// journalService implements the JournalSvcFacade interface.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountReaderSvc
	autoSubmit  bool
}

// NewJournalService creates the journal entry service. When autoSubmit is set,
// newly created entries start in SUBMITTED instead of DRAFT.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountSvc portssvc.AccountReaderSvc,
	bookGuard portssvc.BookGuardSvc,
	autoSubmit bool,
) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: BaseService{BookGuard: bookGuard},
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		autoSubmit:  autoSubmit,
	}
}

// Ensure journalService implements the JournalSvcFacade interface.
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// buildLines converts request lines into domain lines, normalizing amounts and
// validating each line, then drops zero-zero no-op lines.
func buildLines(entryID string, reqLines []dto.CreateJournalLineRequest, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(reqLines))
	for _, rl := range reqLines {
		line := domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: rl.AccountID,
			Debit:     accounting.Normalize(rl.Debit),
			Credit:    accounting.Normalize(rl.Credit),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := accounting.ValidateLine(line); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		lines = append(lines, line)
	}
	return accounting.EffectiveLines(lines), nil
}

// validateLines runs the structural checks shared by create and update:
// minimum line count, minimum distinct accounts, and the balance rule.
func (s *journalService) validateLines(ctx context.Context, bookID string, lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	accountIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		accountIDs = append(accountIDs, l.AccountID)
	}
	accountIDs = uniqueStrings(accountIDs)
	if len(accountIDs) < 2 {
		return ErrEntryMinAccounts
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return fmt.Errorf("%w: %v", ErrEntryUnbalanced, err)
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, bookID, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w %s in book %s", ErrAccountNotFound, id, bookID)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrValidation, account.Code, id)
		}
	}
	return nil
}

// CreateEntry records a new journal entry in DRAFT (or SUBMITTED when
// auto-submit is configured).
func (s *journalService) CreateEntry(ctx context.Context, bookID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for CreateEntry", slog.String("book_id", bookID))
		return nil, err
	}

	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := buildLines(entryID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, bookID, lines); err != nil {
		return nil, err
	}

	status := domain.Draft
	if s.autoSubmit {
		status = domain.Submitted
	}

	entry := domain.JournalEntry{
		EntryID:       entryID,
		BookID:        bookID,
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		Status:        status,
		AttachmentRef: req.AttachmentRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry",
			slog.String("entry_id", entryID),
			slog.String("book_id", bookID))
		return nil, err
	}

	entry.Lines = lines
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entryID),
		slog.String("book_id", bookID),
		slog.String("status", string(entry.Status)))
	return &entry, nil
}

// getEntryInBook fetches an entry and verifies it belongs to the given book.
func (s *journalService) getEntryInBook(ctx context.Context, bookID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.BookID != bookID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found in book %s", entryID, bookID))
	}
	return entry, nil
}

// GetEntryByID retrieves a journal entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, bookID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.getEntryInBook(ctx, bookID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal lines", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of journal entries for a book, newest first,
// optionally filtered by status.
func (s *journalService) ListEntries(ctx context.Context, bookID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	var status *domain.EntryStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.EntryStatus(*params.Status)
		status = &st
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByBook(ctx, bookID, status, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("book_id", bookID))
		return nil, err
	}

	if len(entries) > 0 {
		entryIDs := make([]string, 0, len(entries))
		for _, e := range entries {
			entryIDs = append(entryIDs, e.EntryID)
		}
		linesByEntry, err := s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to load lines for entry page", slog.String("book_id", bookID))
			return nil, err
		}
		for i := range entries {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
	}

	resp := dto.ToListJournalEntriesResponse(entries, nextToken)
	return &resp, nil
}

// UpdateEntry replaces the mutable fields of a DRAFT entry. Entries past DRAFT
// are immutable; corrections to approved entries go through ReverseEntry.
func (s *journalService) UpdateEntry(ctx context.Context, bookID string, entryID string, req dto.UpdateJournalEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return nil, err
	}

	entry, err := s.getEntryInBook(ctx, bookID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.NewConflictError(fmt.Sprintf("journal entry %s is %s and cannot be edited", entryID, entry.Status))
	}

	now := time.Now().UTC()

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescriptionMissing
		}
		entry.Description = *req.Description
	}
	if req.AttachmentRef != nil {
		entry.AttachmentRef = *req.AttachmentRef
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		lines, err = buildLines(entryID, req.Lines, requestingUserID, now)
		if err != nil {
			return nil, err
		}
	} else {
		lines, err = s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, err
		}
	}
	if err := s.validateLines(ctx, bookID, lines); err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.ReplaceEntry(ctx, *entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to replace journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Lines = lines
	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteEntry removes a non-approved entry and its lines.
func (s *journalService) DeleteEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) error {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return err
	}

	entry, err := s.getEntryInBook(ctx, bookID, entryID)
	if err != nil {
		return err
	}
	if entry.Status == domain.Approved {
		return apperrors.NewConflictError(fmt.Sprintf("journal entry %s is approved and cannot be deleted", entryID))
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", requestingUserID))
	return nil
}

// transition moves an entry between lifecycle states. The repository applies
// the change with a status guard under the book lock, so concurrent callers
// cannot both win.
func (s *journalService) transition(ctx context.Context, bookID string, entryID string, to domain.EntryStatus, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return nil, err
	}

	entry, err := s.getEntryInBook(ctx, bookID, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.CanTransitionTo(to) {
		return nil, apperrors.NewStateTransitionError(fmt.Sprintf("journal entry %s is %s and cannot move to %s", entryID, entry.Status, to))
	}

	if to == domain.Approved {
		// Approval is the last gate before an entry affects balances.
		// Re-check the balance rule in case data predates current validation.
		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, err
		}
		if err := accounting.ValidateEntryBalance(lines); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntryUnbalanced, err)
		}
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, bookID, entryID, entry.Status, to, requestingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update entry status",
			slog.String("entry_id", entryID),
			slog.String("to", string(to)))
		return nil, err
	}

	entry.Status = to
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	s.LogInfo(ctx, "Journal entry status changed",
		slog.String("entry_id", entryID),
		slog.String("status", string(to)))
	return s.GetEntryByID(ctx, bookID, entryID)
}

// SubmitEntry moves a DRAFT entry to SUBMITTED.
func (s *journalService) SubmitEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, bookID, entryID, domain.Submitted, requestingUserID)
}

// ApproveEntry moves a SUBMITTED entry to APPROVED, making it visible to
// ledgers and reports.
func (s *journalService) ApproveEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, bookID, entryID, domain.Approved, requestingUserID)
}

// RejectEntry moves a SUBMITTED entry to REJECTED.
func (s *journalService) RejectEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, bookID, entryID, domain.Rejected, requestingUserID)
}

// ReverseEntry creates an auto-approved entry with debits and credits swapped,
// linked to the approved entry it corrects. An entry can be reversed once, and
// a reversal cannot itself be reversed.
func (s *journalService) ReverseEntry(ctx context.Context, bookID string, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return nil, err
	}

	original, err := s.getEntryInBook(ctx, bookID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Approved {
		return nil, apperrors.NewStateTransitionError(fmt.Sprintf("journal entry %s is %s, only approved entries can be reversed", entryID, original.Status))
	}
	if original.OriginalEntryID != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("journal entry %s is itself a reversal", entryID))
	}
	if original.ReversingEntryID != nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("journal entry %s is already reversed by %s", entryID, *original.ReversingEntryID))
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversedLines := make([]domain.JournalLine, 0, len(originalLines))
	for _, l := range originalLines {
		reversedLines = append(reversedLines, domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   reversingID,
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		})
	}

	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		BookID:          bookID,
		EntryDate:       original.EntryDate,
		Description:     "Reversal of: " + original.Description,
		Status:          domain.Approved,
		OriginalEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.journalRepo.SaveReversal(ctx, reversing, reversedLines, original.EntryID, requestingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to save reversal entry",
			slog.String("original_entry_id", entryID),
			slog.String("reversing_entry_id", reversingID))
		return nil, err
	}

	reversing.Lines = reversedLines
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversing_entry_id", reversingID))
	return &reversing, nil
}
