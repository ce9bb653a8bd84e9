package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

const dateLayout = "2006-01-02"

// ledgerHandler serves balance and ledger queries.
type ledgerHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newLedgerHandler(bs portssvc.BalanceSvcFacade) *ledgerHandler {
	return &ledgerHandler{balanceService: bs}
}

// registerLedgerRoutes registers balance and ledger routes under accounts.
func registerLedgerRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newLedgerHandler(balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id/balance", h.getBalance)
		accounts.GET("/:id/ledger", h.getLedger)
	}
}

// parseDateParam parses an optional yyyy-mm-dd query parameter. A missing
// parameter yields the zero time.
func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

// getBalance returns the account's balance as of an optional date.
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	asOf, err := parseDateParam(c, "asOf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected yyyy-mm-dd"})
		return
	}

	balance, err := h.balanceService.AccountBalance(c.Request.Context(), businessID, accountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		AsOf:      asOf,
		Balance:   balance,
	})
}

// getLedger returns the account's ledger over an optional date range, with a
// running balance per line.
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

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

	lines, err := h.balanceService.Ledger(c.Request.Context(), businessID, accountID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ledger"})
		}
		return
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}
	c.JSON(http.StatusOK, dto.LedgerResponse{
		AccountID: accountID,
		From:      from,
		To:        to,
		Lines:     lines,
	})
}
