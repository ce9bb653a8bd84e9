package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallbooks/bookkeeping_app/internal/apperrors"
	portssvc "github.com/smallbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/smallbooks/bookkeeping_app/internal/dto"
	"github.com/smallbooks/bookkeeping_app/internal/middleware"
)

// reconciliationHandler handles HTTP requests related to reconciliations.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers reconciliation routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.createReconciliation)
		recs.GET("/:id", h.getReconciliation)
		recs.GET("", h.listReconciliations)
		recs.POST("/:id/automatch", h.autoMatch)
		recs.POST("/:id/lock", h.lock)
		recs.GET("/:id/matches", h.listMatches)
		recs.POST("/:id/matches", h.addMatch)
		recs.DELETE("/:id/matches/:matchID", h.removeMatch)
	}
}

// createReconciliation opens a statement period for an account.
func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.CreateReconciliation(c.Request.Context(), businessID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to create reconciliation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation created", slog.String("reconciliation_id", rec.ReconciliationID))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// getReconciliation retrieves a reconciliation record.
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.GetReconciliation(c.Request.Context(), businessID, reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else {
			logger.Error("Failed to get reconciliation from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reconciliation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// listReconciliations retrieves an account's reconciliation records.
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID is required"})
		return
	}

	recs, err := h.reconciliationService.ListReconciliations(c.Request.Context(), businessID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to list reconciliations from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reconciliations"})
		}
		return
	}

	responses := make([]dto.ReconciliationResponse, len(recs))
	for i := range recs {
		responses[i] = dto.ToReconciliationResponse(&recs[i])
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": responses})
}

// autoMatch matches statement lines against the ledger.
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	var req dto.AutoMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AutoMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	result, err := h.reconciliationService.AutoMatch(c.Request.Context(), businessID, reconciliationID, req.ToStatementLines(), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		case errors.Is(err, apperrors.ErrAlreadyLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to auto-match in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to auto-match"})
		}
		return
	}

	logger.Info("Auto-match completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("matched", len(result.Matched)),
		slog.Int("unmatched", len(result.Unmatched)))
	c.JSON(http.StatusOK, dto.AutoMatchResponse{
		Matched:   result.Matched,
		Unmatched: result.Unmatched,
	})
}

// lock makes the reconciliation terminal.
func (h *reconciliationHandler) lock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	err := h.reconciliationService.Lock(c.Request.Context(), businessID, reconciliationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		case errors.Is(err, apperrors.ErrAlreadyLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUnbalancedClosingBalance):
			logger.Warn("Closing balance mismatch", slog.String("reconciliation_id", reconciliationID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to lock reconciliation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation locked", slog.String("reconciliation_id", reconciliationID))
	c.Status(http.StatusNoContent)
}

// listMatches retrieves all matches for a reconciliation.
func (h *reconciliationHandler) listMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	matches, err := h.reconciliationService.ListMatches(c.Request.Context(), businessID, reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else {
			logger.Error("Failed to list matches from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matches"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// addMatch manually links a statement record to a ledger line.
func (h *reconciliationHandler) addMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	var req dto.AddMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	match, err := h.reconciliationService.AddMatch(c.Request.Context(), businessID, reconciliationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation or ledger line not found"})
		case errors.Is(err, apperrors.ErrAlreadyLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to add match in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add match"})
		}
		return
	}

	logger.Info("Manual match added",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("line_id", match.LineID))
	c.JSON(http.StatusCreated, match)
}

// removeMatch deletes a match from an open reconciliation.
func (h *reconciliationHandler) removeMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")
	matchID := c.Param("matchID")

	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	err := h.reconciliationService.RemoveMatch(c.Request.Context(), businessID, reconciliationID, matchID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
		case errors.Is(err, apperrors.ErrAlreadyLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to remove match in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove match"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
