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
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountBookGuard adds the book precondition check dependency
func WithAccountBookGuard(guard portssvc.BookGuardSvc) AccountServiceOption {
	return func(s *accountService) {
		s.BookGuard = guard
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// validateParent checks that a parent account exists, lives in the same book, and
// that adopting it would not create a cycle in the account tree.
func (s *accountService) validateParent(ctx context.Context, bookID string, accountID string, parentID string) error {
	if parentID == accountID {
		return fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
	}

	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
		}
		return fmt.Errorf("failed to find parent account: %w", err)
	}
	if parent.BookID != bookID {
		return fmt.Errorf("%w: parent account %s belongs to a different book", apperrors.ErrValidation, parentID)
	}

	// Walk up the ancestor chain. Hitting the account being updated means the new
	// parent is one of its descendants.
	seen := map[string]bool{}
	current := parent
	for current.ParentAccountID != "" {
		if current.ParentAccountID == accountID {
			return fmt.Errorf("%w: parent assignment would create a cycle", apperrors.ErrValidation)
		}
		if seen[current.ParentAccountID] {
			// Existing data already contains a loop, refuse to extend it.
			return fmt.Errorf("%w: account hierarchy contains a cycle", apperrors.ErrValidation)
		}
		seen[current.ParentAccountID] = true

		next, err := s.accountRepo.FindAccountByID(ctx, current.ParentAccountID)
		if err != nil {
			return fmt.Errorf("failed to walk account hierarchy: %w", err)
		}
		current = next
	}

	return nil
}

// CreateAccount persists a new account in a book.
func (s *accountService) CreateAccount(ctx context.Context, bookID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for CreateAccount", slog.String("book_id", bookID))
		return nil, err
	}

	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	newAccountID := uuid.NewString()

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if err := s.validateParent(ctx, bookID, newAccountID, parentID); err != nil {
			s.LogError(ctx, err, "Parent validation failed for CreateAccount",
				slog.String("parent_id", parentID),
				slog.String("book_id", bookID))
			return nil, err
		}
	}

	account := domain.Account{
		AccountID:       newAccountID,
		BookID:          bookID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		Category:        req.Category,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", newAccountID),
			slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", newAccountID),
		slog.String("code", account.Code),
		slog.String("book_id", bookID))
	return &account, nil
}

// GetAccountByID retrieves a specific account, scoped to the given book.
func (s *accountService) GetAccountByID(ctx context.Context, bookID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}

	if account.BookID != bookID {
		// Obscure existence of accounts outside the requested book.
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

// GetAccountByIDs retrieves multiple accounts by their IDs, all scoped to one book.
func (s *accountService) GetAccountByIDs(ctx context.Context, bookID string, accountIDs []string) (map[string]domain.Account, error) {
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts by IDs", slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for id, acc := range accountsMap {
		if acc.BookID != bookID {
			delete(accountsMap, id)
		}
	}

	return accountsMap, nil
}

// ListAccounts retrieves a paginated list of accounts for a book.
func (s *accountService) ListAccounts(ctx context.Context, bookID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, bookID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("book_id", bookID))
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account. Changing the type of an
// account that already appears on approved entries is refused.
func (s *accountService) UpdateAccount(ctx context.Context, bookID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		s.LogError(ctx, err, "Book check failed for UpdateAccount", slog.String("book_id", bookID))
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, bookID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Code != nil && *req.Code != account.Code {
		if *req.Code == "" {
			return nil, fmt.Errorf("%w: account code cannot be empty", apperrors.ErrValidation)
		}
		account.Code = *req.Code
		updated = true
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		if !domain.ValidAccountType(*req.AccountType) {
			return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, *req.AccountType)
		}
		referenced, err := s.accountRepo.HasApprovedJournalLines(ctx, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check approved references for retype", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to check account references: %w", err)
		}
		if referenced {
			return nil, fmt.Errorf("%w: account %s appears on approved entries, its type cannot change", apperrors.ErrConflict, accountID)
		}
		account.AccountType = *req.AccountType
		updated = true
	}
	if req.Category != nil {
		account.Category = *req.Category
		updated = true
	}
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if *req.ParentAccountID != "" {
			if err := s.validateParent(ctx, bookID, accountID, *req.ParentAccountID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account update", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save account update: %w", err)
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account as inactive. Inactive accounts keep their
// history but cannot appear on new entries.
func (s *accountService) DeactivateAccount(ctx context.Context, bookID string, accountID string, userID string) error {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return err
	}

	if _, err := s.GetAccountByID(ctx, bookID, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount removes an account that no journal line has ever referenced.
func (s *accountService) DeleteAccount(ctx context.Context, bookID string, accountID string, userID string) error {
	if err := s.EnsureBook(ctx, bookID); err != nil {
		return err
	}

	if _, err := s.GetAccountByID(ctx, bookID, accountID); err != nil {
		return err
	}

	referenced, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check journal references before delete", slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account references: %w", err)
	}
	if referenced {
		return fmt.Errorf("%w: account %s is referenced by journal lines and cannot be deleted", apperrors.ErrConflict, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
