package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/service"
	"kirin-dashboard/internal/session"
)

// MediaHandler proxies the CMS media library. Changes reload the media of
// the selected section so read-only editor fields stay current.
type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func refreshSelectedMedia(c *gin.Context, s *session.Session) {
	if id := s.Store.SelectedID(); id != "" {
		s.Loader.LoadMedia(c.Request.Context(), id)
	}
}

func (h *MediaHandler) List(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	media, err := h.mediaService.List(c.Request.Context(), s.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) Update(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.MediaUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	media, err := h.mediaService.Update(c.Request.Context(), s.Token, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	refreshSelectedMedia(c, s)
	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) Delete(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), s.Token, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	refreshSelectedMedia(c, s)
	c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
}

func (h *MediaHandler) Upload(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrUploadMissing.Error()})
			return
		}
	}

	media, err := h.mediaService.Upload(c.Request.Context(), s.Token, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedUpload),
			errors.Is(err, service.ErrUploadTooLarge),
			errors.Is(err, service.ErrUploadMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}

	refreshSelectedMedia(c, s)
	c.JSON(http.StatusCreated, gin.H{"media": media, "url": media.FileURL})
}
