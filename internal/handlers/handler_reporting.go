package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/crmsuite/crm_ledger_backend/internal/core/ports/services"
	"github.com/crmsuite/crm_ledger_backend/internal/dto"
)

// reportingHandler serves financial reports for a book.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(reportingService portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// registerReportingRoutes sets up report routes nested under a specific book.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// parseDateParam reads a YYYY-MM-DD query parameter, defaulting to def when absent.
func parseDateParam(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Description Lists every account with approved activity up to asOf with debit/credit totals and balances.
// @Tags reports
// @Produce json
// @Param book_id path string true "Book ID"
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Trial balance integrity violation"
// @Router /books/{book_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	bookID := c.Param("book_id")

	asOf, ok := parseDateParam(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), bookID, asOf)
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, asOf))
}

// getIncomeStatement godoc
// @Summary Income statement report
// @Description Reports income and expense activity for entries dated within [from, to].
// @Tags reports
// @Produce json
// @Param book_id path string true "Book ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{book_id}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	bookID := c.Param("book_id")

	from, ok := parseDateParam(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "to", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), bookID, from, to)
	if err != nil {
		respondError(c, err, "Failed to build income statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report, from, to))
}

// getBalanceSheet godoc
// @Summary Balance sheet report
// @Description Reports assets, liabilities and equity as of a date, including derived net income.
// @Tags reports
// @Produce json
// @Param book_id path string true "Book ID"
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Accounting identity violation"
// @Router /books/{book_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	bookID := c.Param("book_id")

	asOf, ok := parseDateParam(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), bookID, asOf)
	if err != nil {
		respondError(c, err, "Failed to build balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}
