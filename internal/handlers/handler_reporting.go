package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// reportingHandler serves the financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the statement routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/cash-flow", h.getCashFlow)
	}
}

// getTrialBalance returns the trial balance as of an optional date.
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	asOf, err := parseDateParam(c, "asOf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected yyyy-mm-dd"})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), businessID, asOf)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{Report: report})
}

// getProfitAndLoss returns the P&L over [from, to].
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	from, err := parseDateParam(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected yyyy-mm-dd"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), businessID, from, to)
	if err != nil {
		logger.Error("Failed to generate profit and loss", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate profit and loss"})
		return
	}

	c.JSON(http.StatusOK, dto.PAndLResponse{Report: report})
}

// getBalanceSheet returns the balance sheet as of an optional date, with the
// retained-earnings period starting at an optional periodStart.
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	asOf, err := parseDateParam(c, "asOf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected yyyy-mm-dd"})
		return
	}
	periodStart, err := parseDateParam(c, "periodStart")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid periodStart date, expected yyyy-mm-dd"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), businessID, asOf, periodStart)
	if err != nil {
		logger.Error("Failed to generate balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate balance sheet"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceSheetResponse{Report: report})
}

// getCashFlow returns the cash flow statement for a designated cash account.
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	cashAccountID := c.Query("cashAccountID")
	if cashAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cashAccountID is required"})
		return
	}

	from, err := parseDateParam(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected yyyy-mm-dd"})
		return
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected yyyy-mm-dd"})
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), businessID, cashAccountID, from, to)
	if err != nil {
		logger.Error("Failed to generate cash flow", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate cash flow"})
		return
	}

	c.JSON(http.StatusOK, dto.CashFlowResponse{Report: report})
}
