package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/sections"
)

// SectionHandler serves the section type catalogue, HTML previews and SEO
// length hints.
type SectionHandler struct {
	registry *sections.Registry
	render   sections.RenderContext
}

func NewSectionHandler(registry *sections.Registry, render sections.RenderContext) *SectionHandler {
	return &SectionHandler{registry: registry, render: render}
}

// Types returns metadata for all registered section types in selector order.
// GET /api/editor/section-types
func (h *SectionHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": h.registry.Types()})
}

// Preview renders the selected section with the current carousel state, or
// the whole page with scope=page. Nothing selected renders an empty body.
// GET /api/editor/preview
func (h *SectionHandler) Preview(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	snap := s.Store.Snapshot()

	if c.Query("scope") == "page" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sections.RenderPage(h.registry, h.render, snap.Sections)))
		return
	}

	var selected *models.Section
	if section, found := snap.Selected(); found {
		selected = &section
	}

	html, err := sections.Render(h.registry, h.render, selected, sections.State{
		ActiveSlide: snap.Carousel.Active,
		Direction:   int(snap.Carousel.Direction),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// SEO reports meta title and description lengths against the limits.
// POST /api/editor/seo
func (h *SectionHandler) SEO(c *gin.Context) {
	var req models.SEORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, editor.CheckSEO(req.MetaTitle, req.MetaDescription))
}
