package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/pkg/validator"
)

const (
	MetaTitleLimit       = 60
	MetaDescriptionLimit = 160
)

var ErrValidation = errors.New("validation failed")

type PageOption struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

type ListItem struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Type     models.SectionType `json:"type"`
	Selected bool               `json:"selected"`
	Dragging bool               `json:"dragging"`
	DragOver bool               `json:"dragOver"`
}

// ListView is the page picker plus the ordered sections of the selected page.
type ListView struct {
	Pages     []PageOption `json:"pages"`
	PageID    string       `json:"pageId"`
	PageTitle string       `json:"pageTitle"`
	Items     []ListItem   `json:"items"`
}

func NewListView(snap Snapshot) ListView {
	view := ListView{
		Pages:  make([]PageOption, 0, len(snap.Pages)),
		PageID: snap.PageID,
		Items:  make([]ListItem, 0, len(snap.Sections)),
	}

	for _, page := range snap.Pages {
		selected := page.ID.String() == snap.PageID
		if selected {
			view.PageTitle = page.Title
		}
		view.Pages = append(view.Pages, PageOption{ID: page.ID.String(), Title: page.Title, Selected: selected})
	}

	for _, section := range snap.Sections {
		view.Items = append(view.Items, ListItem{
			ID:       section.ID,
			Title:    section.Title,
			Type:     section.Type,
			Selected: section.ID == snap.SelectedID,
			Dragging: section.ID == snap.Drag.DraggingID,
			DragOver: section.ID == snap.Drag.OverID,
		})
	}
	return view
}

type TypeOption struct {
	Value    models.SectionType `json:"value"`
	Label    string             `json:"label"`
	Selected bool               `json:"selected"`
}

// EditorView is the form model for the selected section.
type EditorView struct {
	SectionID   string              `json:"sectionId"`
	Title       string              `json:"title"`
	Type        models.SectionType  `json:"type"`
	TypeOptions []TypeOption        `json:"typeOptions"`
	Content     models.Content      `json:"content"`
	ActiveSlide int                 `json:"activeSlide"`
	MediaFields map[string]string   `json:"mediaFields,omitempty"`
	MediaImages []models.Media      `json:"mediaImages,omitempty"`
	Hints       map[string][]string `json:"hints,omitempty"`
}

// mediaBackedFields lists, per type, the read-only fields whose value comes
// from the section's media records looked up by title.
var mediaBackedFields = map[models.SectionType][]string{
	models.SectionTypeText:    {"title", "text"},
	models.SectionTypeHero:    {"headline", "subtext"},
	models.SectionTypeGallery: {"title", "columns"},
}

// NewEditorView returns nil when no section is selected.
func NewEditorView(snap Snapshot) *EditorView {
	section, ok := snap.Selected()
	if !ok {
		return nil
	}

	content := section.Content
	if content == nil {
		content = models.DefaultContent(section.Type)
	}

	view := &EditorView{
		SectionID:   section.ID,
		Title:       section.Title,
		Type:        section.Type,
		TypeOptions: make([]TypeOption, 0, len(models.SectionTypes)),
		Content:     content,
		Hints:       contentHints(content),
	}
	for _, t := range models.SectionTypes {
		view.TypeOptions = append(view.TypeOptions, TypeOption{Value: t, Label: typeLabel(t), Selected: t == section.Type})
	}

	if section.Type == models.SectionTypeCarousel {
		view.ActiveSlide = snap.Carousel.Active
	}

	if fields := mediaBackedFields[section.Type]; len(fields) > 0 {
		view.MediaFields = make(map[string]string, len(fields))
		for _, field := range fields {
			view.MediaFields[field] = mediaText(snap.Media, field)
		}
		if section.Type == models.SectionTypeGallery && view.MediaFields["columns"] == "" {
			view.MediaFields["columns"] = fmt.Sprint(models.DefaultGalleryColumns)
		}
	}

	if section.Type == models.SectionTypeGallery {
		for _, m := range snap.Media {
			if m.IsImage() {
				view.MediaImages = append(view.MediaImages, m)
			}
		}
	}

	if len(view.Hints) == 0 {
		view.Hints = nil
	}
	return view
}

func typeLabel(t models.SectionType) string {
	s := strings.ToLower(string(t))
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidateField checks a single content field the way the editor form does
// before it is handed to the store. The field is applied to the default
// content of t, which is itself valid, so any failure belongs to the field.
func ValidateField(t models.SectionType, field string, value any) error {
	candidate, err := models.WithField(models.DefaultContent(t), field, value)
	if err != nil {
		return err
	}

	if err := validator.Validate(candidate); err != nil {
		problems := validator.FieldErrors(err)
		tags := make([]string, 0, len(problems))
		for _, tag := range problems {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		return fmt.Errorf("%w: %s must satisfy %s", ErrValidation, field, strings.Join(tags, ","))
	}
	return nil
}

// contentHints returns non-blocking advice for content fields.
func contentHints(c models.Content) map[string][]string {
	hints := map[string][]string{}
	switch v := c.(type) {
	case *models.CarouselContent:
		for i, slide := range v.Slides {
			if slide.ImageURL == "" {
				hints["slides"] = append(hints["slides"], fmt.Sprintf("slide %d has no image", i+1))
			}
		}
	case *models.GalleryContent:
		if len(v.Images) == 0 {
			hints["images"] = append(hints["images"], "gallery has no images")
		}
	case *models.HeroContent:
		if v.BackgroundURL == "" {
			hints["backgroundUrl"] = append(hints["backgroundUrl"], "no background selected")
		}
	}
	return hints
}

type SEOHints struct {
	MetaTitleLength       int      `json:"metaTitleLength"`
	MetaDescriptionLength int      `json:"metaDescriptionLength"`
	Warnings              []string `json:"warnings,omitempty"`
}

// CheckSEO counts characters of the page meta fields against the recommended
// limits. Exceeding them only produces warnings.
func CheckSEO(metaTitle, metaDescription string) SEOHints {
	hints := SEOHints{
		MetaTitleLength:       characters(metaTitle),
		MetaDescriptionLength: characters(metaDescription),
	}
	if hints.MetaTitleLength == 0 {
		hints.Warnings = append(hints.Warnings, "meta title is empty")
	}
	if hints.MetaTitleLength > MetaTitleLimit {
		hints.Warnings = append(hints.Warnings, fmt.Sprintf("meta title is %d characters, keep it under %d", hints.MetaTitleLength, MetaTitleLimit))
	}
	if hints.MetaDescriptionLength > MetaDescriptionLimit {
		hints.Warnings = append(hints.Warnings, fmt.Sprintf("meta description is %d characters, keep it under %d", hints.MetaDescriptionLength, MetaDescriptionLimit))
	}
	return hints
}

// characters counts composed characters, so an accent typed as a separate
// combining mark does not count twice.
func characters(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
