package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crmsuite/crm_ledger_backend/internal/apperrors"
	"github.com/crmsuite/crm_ledger_backend/internal/middleware"
)

// ErrorResponse is the generic error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps service errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrStateTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError logs and writes a service error. Client-caused errors (4xx)
// expose the error message; server errors return a generic body.
func respondError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
		// Integrity failures are surfaced distinctly so operators can tell a
		// corrupted ledger apart from an ordinary server fault.
		if errors.Is(err, apperrors.ErrIntegrity) {
			c.JSON(status, ErrorResponse{Error: "Ledger integrity violation"})
			return
		}
		c.JSON(status, ErrorResponse{Error: "Internal server error"})
		return
	}

	logger.Warn(logMsg, slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// requireUserID pulls the authenticated user ID out of the request context,
// aborting with 401 when the auth middleware did not run.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
