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

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.POST("/drafts", h.saveDraft)
		entries.POST("/:id/post", h.postDraft)
		entries.POST("/:id/void", h.voidEntry)
		entries.GET("/:id", h.getEntry)
		entries.GET("", h.listEntries)
	}
}

// entryErrorStatus maps ledger engine errors to HTTP statuses.
func entryErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrEmptyLines),
		errors.Is(err, apperrors.ErrUnbalanced),
		errors.Is(err, apperrors.ErrUnknownAccount),
		errors.Is(err, apperrors.ErrInactiveAccount),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAlreadyVoid),
		errors.Is(err, apperrors.ErrPeriodLocked),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// postEntry validates and commits a journal entry as Posted.
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), businessID, req, userID)
	if err != nil {
		status := entryErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post entry in service", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to post entry"})
		} else {
			logger.Warn("Rejected entry", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// saveDraft stores an entry as Draft.
func (h *journalHandler) saveDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.SaveDraft(c.Request.Context(), businessID, req, userID)
	if err != nil {
		status := entryErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to save draft in service", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to save draft"})
		} else {
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	logger.Info("Draft saved", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// postDraft runs full posting validation on a stored draft and posts it.
func (h *journalHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.PostDraft(c.Request.Context(), businessID, entryID, userID)
	if err != nil {
		status := entryErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to post draft in service", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to post draft"})
		} else {
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	logger.Info("Draft posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry flips an entry to Void.
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.VoidEntry(c.Request.Context(), businessID, entryID, userID); err != nil {
		status := entryErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to void entry in service", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to void entry"})
		} else {
			logger.Warn("Void rejected", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": err.Error()})
		}
		return
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// getEntry retrieves an entry with its lines.
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), businessID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get entry from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries retrieves a paginated entry list for the business.
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, businessID, ok := requireScope(c, logger)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), businessID, params)
	if err != nil {
		logger.Error("Failed to list entries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
