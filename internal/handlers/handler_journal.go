package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// journalHandler handles HTTP requests for journal entries within a book.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes sets up journal entry routes nested under a specific book.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PUT("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)

		entries.POST("/:entry_id/submit", h.submitEntry)
		entries.POST("/:entry_id/approve", h.approveEntry)
		entries.POST("/:entry_id/reject", h.rejectEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Records a balanced journal entry in DRAFT (or SUBMITTED when auto-submit is on).
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry body dto.CreateJournalEntryRequest true "Entry with lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Unbalanced entry or invalid lines"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	bookID := c.Param("book_id")

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), bookID, req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of entries, newest first, optionally filtered by status.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param limit query int false "Page size" default(20)
// @Param status query string false "Filter by status" Enums(DRAFT, SUBMITTED, APPROVED, REJECTED)
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	bookID := c.Param("book_id")

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), bookID, params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	bookID := c.Param("book_id")
	entryID := c.Param("entry_id")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), bookID, entryID)
	if err != nil {
		respondError(c, err, "Failed to get journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a journal entry
// @Description Replaces fields of a DRAFT entry. Entries past DRAFT are immutable.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Param entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not in DRAFT"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	bookID := c.Param("book_id")
	entryID := c.Param("entry_id")

	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), bookID, entryID, req, requestingUserID)
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Deletes a non-approved entry and its lines.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Approved entries cannot be deleted"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	bookID := c.Param("book_id")
	entryID := c.Param("entry_id")

	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteEntry(c.Request.Context(), bookID, entryID, requestingUserID); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// lifecycleAction adapts one of the lifecycle service methods into a handler body.
func (h *journalHandler) lifecycleAction(
	c *gin.Context,
	action func(c *gin.Context, bookID, entryID, userID string) error,
	logMsg string,
) {
	bookID := c.Param("book_id")
	entryID := c.Param("entry_id")

	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := action(c, bookID, entryID, requestingUserID); err != nil {
		respondError(c, err, logMsg)
	}
}

// submitEntry godoc
// @Summary Submit a journal entry
// @Description Moves a DRAFT entry to SUBMITTED.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid state transition"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id}/submit [post]
func (h *journalHandler) submitEntry(c *gin.Context) {
	h.lifecycleAction(c, func(c *gin.Context, bookID, entryID, userID string) error {
		entry, err := h.journalService.SubmitEntry(c.Request.Context(), bookID, entryID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
		return nil
	}, "Failed to submit journal entry")
}

// approveEntry godoc
// @Summary Approve a journal entry
// @Description Moves a SUBMITTED entry to APPROVED, making it visible to ledgers and reports.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid state transition"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	h.lifecycleAction(c, func(c *gin.Context, bookID, entryID, userID string) error {
		entry, err := h.journalService.ApproveEntry(c.Request.Context(), bookID, entryID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
		return nil
	}, "Failed to approve journal entry")
}

// rejectEntry godoc
// @Summary Reject a journal entry
// @Description Moves a SUBMITTED entry to REJECTED.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid state transition"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id}/reject [post]
func (h *journalHandler) rejectEntry(c *gin.Context) {
	h.lifecycleAction(c, func(c *gin.Context, bookID, entryID, userID string) error {
		entry, err := h.journalService.RejectEntry(c.Request.Context(), bookID, entryID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
		return nil
	}, "Failed to reject journal entry")
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Creates an auto-approved entry with debits and credits swapped, linked to the original.
// @Tags journal-entries
// @Produce json
// @Param book_id path string true "Book ID"
// @Param entry_id path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not approved or already reversed"
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	h.lifecycleAction(c, func(c *gin.Context, bookID, entryID, userID string) error {
		entry, err := h.journalService.ReverseEntry(c.Request.Context(), bookID, entryID, userID)
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
		return nil
	}, "Failed to reverse journal entry")
}
