package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// ledgerHandler serves derived account ledgers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes sets up ledger routes nested under a specific book.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/accounts/:account_id/ledger", h.getAccountLedger)
}

// getAccountLedger godoc
// @Summary Get an account ledger
// @Description Retrieves the approved journal lines of an account in chronological order with running balances.
// @Tags ledgers
// @Produce json
// @Param book_id path string true "Book ID"
// @Param account_id path string true "Account ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/accounts/{account_id}/ledger [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	bookID := c.Param("book_id")
	accountID := c.Param("account_id")

	account, lines, err := h.ledgerService.GetAccountLedger(c.Request.Context(), bookID, accountID)
	if err != nil {
		respondError(c, err, "Failed to derive account ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerResponse(account, lines))
}
