package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/repository"
	"kirin-dashboard/internal/service"
)

type DraftHandler struct {
	draftService *service.DraftService
}

func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

func respondDraftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDraftsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoPageSelected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		respondError(c, err)
	}
}

// Save stores the sections of the current page.
// POST /api/editor/drafts
func (h *DraftHandler) Save(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	draft, err := h.draftService.Save(c.Request.Context(), s.User.ID.String(), s.Store)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Restore replaces the sections of a page with its saved draft. The body is
// optional; without a page id the current page is used.
// POST /api/editor/drafts/restore
func (h *DraftHandler) Restore(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.RestoreDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.draftService.Restore(c.Request.Context(), s.User.ID.String(), req.PageID, s.Store)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"draft": draft,
		"state": newStateResponse(s.Store.Snapshot(), true),
	})
}

// GET /api/editor/drafts
func (h *DraftHandler) List(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	drafts, err := h.draftService.List(c.Request.Context(), s.User.ID.String())
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

// DELETE /api/editor/drafts/:pageId
func (h *DraftHandler) Discard(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	if err := h.draftService.Discard(c.Request.Context(), s.User.ID.String(), c.Param("pageId")); err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft discarded"})
}
