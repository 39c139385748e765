package editor

import (
	"sync"
	"time"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/pkg/logger"
)

type EventKind string

const (
	EventPagesLoaded       EventKind = "pages_loaded"
	EventPageSelected      EventKind = "page_selected"
	EventSectionsLoaded    EventKind = "sections_loaded"
	EventSectionSelected   EventKind = "section_selected"
	EventSectionAdded      EventKind = "section_added"
	EventSectionDeleted    EventKind = "section_deleted"
	EventSectionsReordered EventKind = "sections_reordered"
	EventTypeChanged       EventKind = "type_changed"
	EventContentUpdated    EventKind = "content_updated"
	EventTitleUpdated      EventKind = "title_updated"
	EventDragChanged       EventKind = "drag_changed"
	EventCarouselChanged   EventKind = "carousel_changed"
	EventMediaLoaded       EventKind = "media_loaded"
)

// Event is emitted once per applied mutation, after the store lock is released.
type Event struct {
	Kind      EventKind `json:"kind"`
	PageID    string    `json:"pageId,omitempty"`
	SectionID string    `json:"sectionId,omitempty"`
}

type DragState struct {
	DraggingID string `json:"draggingId,omitempty"`
	OverID     string `json:"overId,omitempty"`
}

// Snapshot is a deep copy of the store used by the views.
type Snapshot struct {
	Pages      []models.Page    `json:"pages"`
	PageID     string           `json:"pageId"`
	Sections   []models.Section `json:"sections"`
	SelectedID string           `json:"selectedSectionId"`
	Carousel   Carousel         `json:"carousel"`
	Drag       DragState        `json:"drag"`
	Media      []models.Media   `json:"media"`
}

// Selected returns the selected section, if any.
func (s Snapshot) Selected() (models.Section, bool) {
	for _, section := range s.Sections {
		if section.ID == s.SelectedID {
			return section, true
		}
	}
	return models.Section{}, false
}

// Store owns the sections of the page under edit, the selection and the
// carousel navigation state. Mutations never fail: missing ids and a missing
// selection are no-ops reported through the returned bool.
type Store struct {
	mu sync.Mutex

	pages      []models.Page
	pageID     string
	sections   map[string][]models.Section
	selectedID string
	carousel   Carousel
	drag       DragState
	media      map[string][]models.Media

	subscribers map[int]func(Event)
	nextSubID   int

	transition      time.Duration
	transitionGen   uint64
	transitionTimer *time.Timer
	closed          bool
}

// NewStore builds an empty store. A positive transition makes carousel
// transitions complete on their own after that duration; with zero the
// client reports completion through AnimationDone.
func NewStore(transition time.Duration) *Store {
	initMetrics()

	return &Store{
		sections:    make(map[string][]models.Section),
		media:       make(map[string][]models.Media),
		subscribers: make(map[int]func(Event)),
		transition:  transition,
	}
}

// Subscribe registers fn for every subsequent event. Callbacks run on the
// mutating goroutine after the lock is released, so they may read the store.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// apply runs fn under the lock and notifies subscribers when it reports a change.
func (s *Store) apply(fn func() (Event, bool)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	event, changed := fn()
	var subscribers []func(Event)
	if changed {
		subscribers = make([]func(Event), 0, len(s.subscribers))
		for _, sub := range s.subscribers {
			subscribers = append(subscribers, sub)
		}
	}
	s.mu.Unlock()

	if !changed {
		return false
	}

	storeEventsTotal.WithLabelValues(string(event.Kind)).Inc()
	for _, sub := range subscribers {
		sub(event)
	}
	return true
}

func (s *Store) event(kind EventKind) Event {
	return Event{Kind: kind, PageID: s.pageID, SectionID: s.selectedID}
}

func (s *Store) SetPages(pages []models.Page) {
	s.apply(func() (Event, bool) {
		s.pages = append([]models.Page(nil), pages...)
		return s.event(EventPagesLoaded), true
	})
}

func (s *Store) Pages() []models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Page(nil), s.pages...)
}

// SelectPage switches the page context. It never fetches; the sections shown
// are whatever SetSections stored for pageID.
func (s *Store) SelectPage(pageID string) bool {
	return s.apply(func() (Event, bool) {
		if pageID == s.pageID {
			return Event{}, false
		}
		s.pageID = pageID
		s.selectedID = ""
		s.drag = DragState{}
		s.resetCarouselLocked()
		return s.event(EventPageSelected), true
	})
}

func (s *Store) PageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageID
}

// SetSections replaces the collection held for pageID.
func (s *Store) SetSections(pageID string, sections []models.Section) {
	s.apply(func() (Event, bool) {
		cloned := make([]models.Section, 0, len(sections))
		for _, section := range sections {
			cloned = append(cloned, section.Clone())
		}
		s.sections[pageID] = cloned

		if pageID == s.pageID && s.selectedID != "" && s.indexLocked(s.selectedID) < 0 {
			s.selectedID = ""
			s.resetCarouselLocked()
		}
		return Event{Kind: EventSectionsLoaded, PageID: pageID, SectionID: s.selectedID}, true
	})
}

// Sections returns a copy of the sections of the selected page.
func (s *Store) Sections() []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneSectionsLocked()
}

// SelectSection sets the section under edit. An empty id clears the
// selection; an id that is not on the page is ignored.
func (s *Store) SelectSection(id string) bool {
	return s.apply(func() (Event, bool) {
		if id == s.selectedID {
			return Event{}, false
		}
		if id != "" && s.indexLocked(id) < 0 {
			return Event{}, false
		}
		s.selectedID = id
		s.resetCarouselLocked()
		return s.event(EventSectionSelected), true
	})
}

func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

func (s *Store) Selected() (models.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	section := s.selectedLocked()
	if section == nil {
		return models.Section{}, false
	}
	return section.Clone(), true
}

// ChangeSectionType swaps the selected section's content for the default of
// t, keeping a non-empty content title.
func (s *Store) ChangeSectionType(t models.SectionType) bool {
	return s.apply(func() (Event, bool) {
		section := s.selectedLocked()
		if section == nil {
			return Event{}, false
		}

		var previousTitle string
		if section.Content != nil {
			previousTitle = section.Content.ContentTitle()
		}

		content := models.DefaultContent(t)
		if previousTitle != "" {
			content.SetContentTitle(previousTitle)
		}
		section.Type = content.Type()
		section.Content = content

		s.resetCarouselLocked()
		return s.event(EventTypeChanged), true
	})
}

// UpdateField merges one content field into the selected section. Values
// the content cannot hold are dropped.
func (s *Store) UpdateField(field string, value any) bool {
	return s.apply(func() (Event, bool) {
		section := s.selectedLocked()
		if section == nil {
			return Event{}, false
		}

		content := section.Content
		if content == nil {
			content = models.DefaultContent(section.Type)
		}
		updated, err := models.WithField(content, field, value)
		if err != nil {
			logger.Debug("Ignoring content update", map[string]interface{}{
				"section_id": section.ID,
				"field":      field,
				"error":      err.Error(),
			})
			return Event{}, false
		}
		section.Content = updated
		s.clampActiveLocked()
		return s.event(EventContentUpdated), true
	})
}

// UpdateTitle sets the section-level title of the selected section.
func (s *Store) UpdateTitle(title string) bool {
	return s.apply(func() (Event, bool) {
		section := s.selectedLocked()
		if section == nil {
			return Event{}, false
		}
		section.Title = title
		return s.event(EventTitleUpdated), true
	})
}

// AddSection appends a default TEXT section and selects it.
func (s *Store) AddSection() models.Section {
	var added models.Section
	s.apply(func() (Event, bool) {
		added = models.NewSection(models.DefaultSectionTitle, models.SectionTypeText)
		s.sections[s.pageID] = append(s.sections[s.pageID], added)
		s.selectedID = added.ID
		s.resetCarouselLocked()
		return s.event(EventSectionAdded), true
	})
	return added.Clone()
}

func (s *Store) DeleteSection(id string) bool {
	return s.apply(func() (Event, bool) {
		index := s.indexLocked(id)
		if index < 0 {
			return Event{}, false
		}
		sections := s.sections[s.pageID]
		s.sections[s.pageID] = append(sections[:index:index], sections[index+1:]...)
		delete(s.media, id)

		if s.selectedID == id {
			s.selectedID = ""
			s.resetCarouselLocked()
		}
		if s.drag.DraggingID == id || s.drag.OverID == id {
			s.drag = DragState{}
		}
		return Event{Kind: EventSectionDeleted, PageID: s.pageID, SectionID: id}, true
	})
}

// Reorder takes draggedID out of the list and puts it back at the index
// targetID held before the move. Dragging up lands just before the target,
// dragging down lands just after it, so every slot including the last one is
// reachable. The relative order of every other section is kept.
func (s *Store) Reorder(draggedID, targetID string) bool {
	return s.apply(func() (Event, bool) {
		if !s.reorderLocked(draggedID, targetID) {
			return Event{}, false
		}
		return s.event(EventSectionsReordered), true
	})
}

func (s *Store) reorderLocked(draggedID, targetID string) bool {
	if draggedID == targetID {
		return false
	}
	from, to := s.indexLocked(draggedID), s.indexLocked(targetID)
	if from < 0 || to < 0 {
		return false
	}

	sections := s.sections[s.pageID]
	dragged := sections[from]
	rest := make([]models.Section, 0, len(sections))
	rest = append(rest, sections[:from]...)
	rest = append(rest, sections[from+1:]...)

	reordered := make([]models.Section, 0, len(sections))
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, dragged)
	reordered = append(reordered, rest[to:]...)
	s.sections[s.pageID] = reordered
	return true
}

func (s *Store) DragStart(id string) bool {
	return s.apply(func() (Event, bool) {
		if s.indexLocked(id) < 0 {
			return Event{}, false
		}
		s.drag = DragState{DraggingID: id}
		return s.event(EventDragChanged), true
	})
}

// DragOver marks the hover target. Hovering the dragged section itself is
// ignored.
func (s *Store) DragOver(id string) bool {
	return s.apply(func() (Event, bool) {
		if s.drag.DraggingID == "" || id == s.drag.DraggingID || id == s.drag.OverID {
			return Event{}, false
		}
		if s.indexLocked(id) < 0 {
			return Event{}, false
		}
		s.drag.OverID = id
		return s.event(EventDragChanged), true
	})
}

// Drop moves the dragged section onto targetID and ends the gesture.
func (s *Store) Drop(targetID string) bool {
	return s.apply(func() (Event, bool) {
		if s.drag.DraggingID == "" {
			return Event{}, false
		}
		reordered := s.reorderLocked(s.drag.DraggingID, targetID)
		s.drag = DragState{}
		if reordered {
			return s.event(EventSectionsReordered), true
		}
		return s.event(EventDragChanged), true
	})
}

func (s *Store) DragEnd() bool {
	return s.apply(func() (Event, bool) {
		if s.drag == (DragState{}) {
			return Event{}, false
		}
		s.drag = DragState{}
		return s.event(EventDragChanged), true
	})
}

// AddSlide appends a slide to the selected carousel and makes it active.
func (s *Store) AddSlide() (int, bool) {
	index := -1
	changed := s.apply(func() (Event, bool) {
		carousel, _ := s.selectedCarouselLocked()
		if carousel == nil {
			return Event{}, false
		}
		index = carousel.AddSlide()
		s.carousel.Active = index
		return s.event(EventContentUpdated), true
	})
	return index, changed
}

func (s *Store) UpdateSlide(index int, field, value string) bool {
	return s.apply(func() (Event, bool) {
		carousel, _ := s.selectedCarouselLocked()
		if carousel == nil || carousel.UpdateSlide(index, field, value) != nil {
			return Event{}, false
		}
		return s.event(EventContentUpdated), true
	})
}

// RemoveSlide deletes a slide from the selected carousel. The last slide is
// never removed.
func (s *Store) RemoveSlide(index int) bool {
	return s.apply(func() (Event, bool) {
		carousel, _ := s.selectedCarouselLocked()
		if carousel == nil || carousel.RemoveSlide(index) != nil {
			return Event{}, false
		}
		s.clampActiveLocked()
		return s.event(EventContentUpdated), true
	})
}

func (s *Store) AddGalleryImage(imageURL, caption string) (models.GalleryImage, bool) {
	var image models.GalleryImage
	changed := s.apply(func() (Event, bool) {
		section := s.selectedLocked()
		if section == nil {
			return Event{}, false
		}
		gallery, ok := section.Content.(*models.GalleryContent)
		if !ok {
			return Event{}, false
		}
		image = gallery.AddImage(imageURL, caption)
		return s.event(EventContentUpdated), true
	})
	return image, changed
}

func (s *Store) RemoveGalleryImage(id string) bool {
	return s.apply(func() (Event, bool) {
		section := s.selectedLocked()
		if section == nil {
			return Event{}, false
		}
		gallery, ok := section.Content.(*models.GalleryContent)
		if !ok || !gallery.RemoveImage(id) {
			return Event{}, false
		}
		return s.event(EventContentUpdated), true
	})
}

// SetMedia caches the media records attached to a section.
func (s *Store) SetMedia(sectionID string, media []models.Media) {
	s.apply(func() (Event, bool) {
		s.media[sectionID] = append([]models.Media{}, media...)
		return Event{Kind: EventMediaLoaded, PageID: s.pageID, SectionID: sectionID}, true
	})
}

func (s *Store) Media(sectionID string) []models.Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Media{}, s.media[sectionID]...)
}

// MediaText returns the text of the selected section's media record titled
// title, or "" when there is none.
func (s *Store) MediaText(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mediaText(s.media[s.selectedID], title)
}

func mediaText(media []models.Media, title string) string {
	for _, m := range media {
		if m.Title == title {
			return m.Text
		}
	}
	return ""
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Pages:      append([]models.Page{}, s.pages...),
		PageID:     s.pageID,
		Sections:   s.cloneSectionsLocked(),
		SelectedID: s.selectedID,
		Carousel:   s.carousel,
		Drag:       s.drag,
		Media:      append([]models.Media{}, s.media[s.selectedID]...),
	}
}

// Close stops the transition timer and drops all subscribers. Later
// mutations are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTransitionLocked()
	s.subscribers = make(map[int]func(Event))
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, section := range s.sections[s.pageID] {
		if section.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) selectedLocked() *models.Section {
	index := s.indexLocked(s.selectedID)
	if index < 0 {
		return nil
	}
	return &s.sections[s.pageID][index]
}

func (s *Store) selectedCarouselLocked() (*models.CarouselContent, *models.Section) {
	section := s.selectedLocked()
	if section == nil {
		return nil, nil
	}
	carousel, ok := section.Content.(*models.CarouselContent)
	if !ok {
		return nil, nil
	}
	return carousel, section
}

func (s *Store) cloneSectionsLocked() []models.Section {
	sections := s.sections[s.pageID]
	out := make([]models.Section, 0, len(sections))
	for _, section := range sections {
		out = append(out, section.Clone())
	}
	return out
}
