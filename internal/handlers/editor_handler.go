package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/validator"
)

// EditorHandler exposes the editing operations of the caller's session.
// Mutations answer with the resulting views; a mutation that did not apply
// reports changed=false rather than an error.
type EditorHandler struct{}

func NewEditorHandler() *EditorHandler {
	return &EditorHandler{}
}

type stateResponse struct {
	Changed  bool               `json:"changed"`
	List     editor.ListView    `json:"list"`
	Editor   *editor.EditorView `json:"editor"`
	Carousel editor.Carousel    `json:"carousel"`
}

func newStateResponse(snap editor.Snapshot, changed bool) stateResponse {
	return stateResponse{
		Changed:  changed,
		List:     editor.NewListView(snap),
		Editor:   editor.NewEditorView(snap),
		Carousel: snap.Carousel,
	}
}

func respondState(c *gin.Context, s *session.Session, changed bool) {
	c.JSON(http.StatusOK, newStateResponse(s.Store.Snapshot(), changed))
}

// mutate runs fn against the session store and answers with the new state.
func (h *EditorHandler) mutate(fn func(c *gin.Context, s *session.Session) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := requireSession(c)
		if !ok {
			return
		}
		changed := fn(c, s)
		if c.IsAborted() || c.Writer.Written() {
			return
		}
		respondState(c, s, changed)
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid slide index"})
		return 0, false
	}
	return index, true
}

func (h *EditorHandler) State(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	respondState(c, s, false)
}

// Pages lists the pages; refresh=true fetches them again from the CMS.
func (h *EditorHandler) Pages(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	if c.Query("refresh") == "true" {
		s.Loader.LoadPages(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"pages": editor.NewListView(s.Store.Snapshot()).Pages})
}

func (h *EditorHandler) SelectPage() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		return s.Loader.SelectPage(c.Request.Context(), c.Param("pageId"))
	})
}

func (h *EditorHandler) AddSection(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	added := s.Store.AddSection()
	c.JSON(http.StatusCreated, gin.H{
		"section": added,
		"state":   newStateResponse(s.Store.Snapshot(), true),
	})
}

func (h *EditorHandler) DeleteSection() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		return s.Store.DeleteSection(c.Param("sectionId"))
	})
}

// SelectSection selects a section and loads its media.
func (h *EditorHandler) SelectSection() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		return s.Loader.SelectSection(c.Request.Context(), c.Param("sectionId"))
	})
}

func (h *EditorHandler) ClearSelection() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		return s.Store.SelectSection("")
	})
}

func (h *EditorHandler) Reorder() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		var req models.ReorderRequest
		if !bindJSON(c, &req) {
			return false
		}
		return s.Store.Reorder(req.DraggedID, req.TargetID)
	})
}

// Drag feeds one drag gesture event to the store. A drop reorders.
func (h *EditorHandler) Drag() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		var req models.DragRequest
		if !bindJSON(c, &req) {
			return false
		}
		switch req.Event {
		case "start":
			return s.Store.DragStart(req.SectionID)
		case "over":
			return s.Store.DragOver(req.SectionID)
		case "drop":
			return s.Store.Drop(req.SectionID)
		default:
			return s.Store.DragEnd()
		}
	})
}

func (h *EditorHandler) ChangeType() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		var req models.ChangeTypeRequest
		if !bindJSON(c, &req) {
			return false
		}
		t, known := models.ParseSectionType(req.Type)
		if !known {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown section type"})
			return false
		}
		return s.Store.ChangeSectionType(t)
	})
}

func (h *EditorHandler) UpdateTitle() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		var req models.UpdateTitleRequest
		if !bindJSON(c, &req) {
			return false
		}
		return s.Store.UpdateTitle(req.Title)
	})
}

// UpdateContent sets one content field of the selected section after
// validating it against the section type.
func (h *EditorHandler) UpdateContent() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		var req models.UpdateFieldRequest
		if !bindJSON(c, &req) {
			return false
		}

		selected, ok := s.Store.Selected()
		if !ok {
			return false
		}

		if err := editor.ValidateField(selected.Type, req.Field, req.Value); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, editor.ErrValidation) {
				status = http.StatusUnprocessableEntity
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "field": req.Field})
			return false
		}
		return s.Store.UpdateField(req.Field, req.Value)
	})
}

func (h *EditorHandler) Next() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool { return s.Store.Next() })
}

func (h *EditorHandler) Prev() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool { return s.Store.Prev() })
}

func (h *EditorHandler) AnimationDone() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool { return s.Store.AnimationDone() })
}

func (h *EditorHandler) GoTo() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		index, ok := indexParam(c)
		if !ok {
			return false
		}
		return s.Store.GoTo(index)
	})
}

// Touch forwards one phase of a touch gesture. The response also reports
// whether the gesture was claimed as a swipe and, on end, its direction.
func (h *EditorHandler) Touch(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	var req models.TouchRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		changed   bool
		swiping   bool
		direction editor.Direction
	)
	switch req.Phase {
	case "start":
		changed = s.Store.TouchStart(req.X, req.Y)
	case "move":
		changed = s.Store.TouchMove(req.X, req.Y)
		swiping = changed
	default:
		direction = s.Store.TouchEnd()
		changed = direction != editor.DirectionNone
	}

	c.JSON(http.StatusOK, gin.H{
		"swiping":   swiping,
		"direction": direction,
		"state":     newStateResponse(s.Store.Snapshot(), changed),
	})
}

func (h *EditorHandler) AddSlide(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	index, added := s.Store.AddSlide()
	if !added {
		c.JSON(http.StatusConflict, gin.H{"error": "selected section is not a carousel"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"index": index,
		"state": newStateResponse(s.Store.Snapshot(), true),
	})
}

func (h *EditorHandler) UpdateSlide() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		index, ok := indexParam(c)
		if !ok {
			return false
		}
		var req models.UpdateSlideRequest
		if !bindJSON(c, &req) {
			return false
		}
		if req.Field == "imageUrl" || req.Field == "url" {
			if err := validator.Var(req.Value, "media_url"); err != nil {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid url", "field": req.Field})
				return false
			}
		}
		return s.Store.UpdateSlide(index, req.Field, req.Value)
	})
}

// RemoveSlide answers 409 when the slide cannot go, which includes the last
// remaining slide.
func (h *EditorHandler) RemoveSlide(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	if !s.Store.RemoveSlide(index) {
		c.JSON(http.StatusConflict, gin.H{"error": "slide cannot be removed"})
		return
	}
	respondState(c, s, true)
}

func (h *EditorHandler) AddImage(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.AddImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image, added := s.Store.AddGalleryImage(req.ImageURL, req.Caption)
	if !added {
		c.JSON(http.StatusConflict, gin.H{"error": "selected section is not a gallery"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"image": image,
		"state": newStateResponse(s.Store.Snapshot(), true),
	})
}

func (h *EditorHandler) RemoveImage() gin.HandlerFunc {
	return h.mutate(func(c *gin.Context, s *session.Session) bool {
		return s.Store.RemoveGalleryImage(c.Param("imageId"))
	})
}

// Media returns the media of the selected section; refresh=true reloads it.
func (h *EditorHandler) Media(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}
	selectedID := s.Store.SelectedID()
	if selectedID == "" {
		c.JSON(http.StatusOK, gin.H{"media": []models.Media{}})
		return
	}
	if c.Query("refresh") == "true" {
		s.Loader.LoadMedia(c.Request.Context(), selectedID)
	}
	c.JSON(http.StatusOK, gin.H{"media": s.Store.Media(selectedID)})
}
