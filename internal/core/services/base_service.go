package services

import (
	"context"
	"log/slog"

	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	BookGuard portssvc.BookGuardSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// EnsureBook checks that the target book exists and is active before a mutation.
func (s *BaseService) EnsureBook(ctx context.Context, bookID string) error {
	if s.BookGuard != nil {
		return s.BookGuard.EnsureActiveBook(ctx, bookID)
	}
	s.LogDebug(ctx, "No book guard configured, book check skipped",
		slog.String("book_id", bookID))
	return nil
}
