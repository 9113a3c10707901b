package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// bookHandler handles HTTP requests related to books.
type bookHandler struct {
	bookService portssvc.BookSvcFacade
}

func newBookHandler(bookService portssvc.BookSvcFacade) *bookHandler {
	return &bookHandler{bookService: bookService}
}

// registerBookRoutes sets up the book routes and nests the book-scoped
// account, journal, ledger and report routes under /books/:book_id.
func registerBookRoutes(
	rg *gin.RouterGroup,
	bookService portssvc.BookSvcFacade,
	accountService portssvc.AccountSvcFacade,
	journalService portssvc.JournalSvcFacade,
	ledgerService portssvc.LedgerSvcFacade,
	reportingService portssvc.ReportingService,
) {
	h := newBookHandler(bookService)

	books := rg.Group("/books")
	{
		books.POST("", h.createBook)
		books.GET("", h.listBooks)
	}

	bookSpecific := rg.Group("/books/:book_id")
	{
		bookSpecific.GET("", h.getBook)
		bookSpecific.POST("/activate", h.activateBook)
		bookSpecific.POST("/deactivate", h.deactivateBook)

		RegisterAccountRoutes(bookSpecific, accountService)
		registerJournalRoutes(bookSpecific, journalService)
		registerLedgerRoutes(bookSpecific, ledgerService)
		registerReportingRoutes(bookSpecific, reportingService)
	}
}

// createBook godoc
// @Summary Create a new book
// @Description Creates a new set of books (an independent ledger).
// @Tags books
// @Accept json
// @Produce json
// @Param book body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.BookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books [post]
func (h *bookHandler) createBook(c *gin.Context) {
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req.Name, req.Description, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create book")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookResponse(book))
}

// listBooks godoc
// @Summary List books
// @Description Retrieves a paginated list of books.
// @Tags books
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListBooksResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books [get]
func (h *bookHandler) listBooks(c *gin.Context) {
	var params dto.ListBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list books")
		return
	}

	c.JSON(http.StatusOK, dto.ToListBooksResponse(books))
}

// getBook godoc
// @Summary Get a book
// @Description Retrieves a book by ID.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id} [get]
func (h *bookHandler) getBook(c *gin.Context) {
	bookID := c.Param("book_id")

	book, err := h.bookService.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err, "Failed to get book")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// activateBook godoc
// @Summary Activate a book
// @Description Reactivates a previously deactivated book.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/activate [post]
func (h *bookHandler) activateBook(c *gin.Context) {
	bookID := c.Param("book_id")

	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.bookService.ActivateBook(c.Request.Context(), bookID, requestingUserID); err != nil {
		respondError(c, err, "Failed to activate book")
		return
	}

	book, err := h.bookService.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err, "Failed to reload book after activation")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// deactivateBook godoc
// @Summary Deactivate a book
// @Description Deactivates a book; its data is preserved but rejects new writes.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/deactivate [post]
func (h *bookHandler) deactivateBook(c *gin.Context) {
	bookID := c.Param("book_id")

	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.bookService.DeactivateBook(c.Request.Context(), bookID, requestingUserID); err != nil {
		respondError(c, err, "Failed to deactivate book")
		return
	}

	book, err := h.bookService.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, err, "Failed to reload book after deactivation")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}
