package editor

import (
	"errors"
	"strings"
	"testing"

	"kirin-dashboard/internal/models"
)

func TestListViewFlagsSelectionAndDrag(t *testing.T) {
	store := newTestStore(t, section("A", models.SectionTypeText), section("B", models.SectionTypeCard))
	store.SetPages([]models.Page{{ID: "home", Title: "Home"}, {ID: "about", Title: "About"}})
	store.SelectSection("B")
	store.DragStart("A")
	store.DragOver("B")

	view := NewListView(store.Snapshot())
	if view.PageTitle != "Home" || !view.Pages[0].Selected || view.Pages[1].Selected {
		t.Fatalf("unexpected page options %+v", view)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(view.Items))
	}
	if !view.Items[0].Dragging || !view.Items[1].DragOver || !view.Items[1].Selected {
		t.Fatalf("unexpected item flags %+v", view.Items)
	}
}

func TestEditorViewIsNilWithoutSelection(t *testing.T) {
	store := newTestStore(t, section("A", models.SectionTypeText))

	if view := NewEditorView(store.Snapshot()); view != nil {
		t.Fatalf("expected nil editor view, got %+v", view)
	}
}

func TestEditorViewForGallery(t *testing.T) {
	store := newTestStore(t, section("G", models.SectionTypeGallery))
	store.SelectSection("G")
	store.SetMedia("G", []models.Media{
		{ID: "1", Title: "title", Type: models.MediaTypeText, Text: "Our work"},
		{ID: "2", Title: "photo", Type: models.MediaTypeImage, FileURL: "/media/photo.jpg"},
	})

	view := NewEditorView(store.Snapshot())
	if view == nil {
		t.Fatalf("expected editor view")
	}
	if view.MediaFields["title"] != "Our work" || view.MediaFields["columns"] != "3" {
		t.Fatalf("unexpected media fields %+v", view.MediaFields)
	}
	if len(view.MediaImages) != 1 || view.MediaImages[0].ID != "2" {
		t.Fatalf("unexpected media images %+v", view.MediaImages)
	}
	if len(view.TypeOptions) != len(models.SectionTypes) || !view.TypeOptions[2].Selected {
		t.Fatalf("unexpected type options %+v", view.TypeOptions)
	}
	if len(view.Hints["images"]) == 0 {
		t.Fatalf("expected a hint for an empty gallery")
	}
}

func TestValidateField(t *testing.T) {
	cases := []struct {
		name  string
		t     models.SectionType
		field string
		value any
		ok    bool
	}{
		{"columns in range", models.SectionTypeGallery, "columns", 4, true},
		{"columns too high", models.SectionTypeGallery, "columns", 5, false},
		{"columns too low", models.SectionTypeGallery, "columns", 0, false},
		{"opacity in range", models.SectionTypeHero, "overlayOpacity", 100, true},
		{"opacity too high", models.SectionTypeHero, "overlayOpacity", 101, false},
		{"known animation", models.SectionTypeCarousel, "animation", "fade", true},
		{"unknown animation", models.SectionTypeCarousel, "animation", "spin", false},
		{"relative url", models.SectionTypeCard, "buttonUrl", "/contact", true},
		{"bad url", models.SectionTypeCard, "buttonUrl", "javascript:alert(1)", false},
		{"unknown field", models.SectionTypeText, "columns", 2, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateField(tc.t, tc.field, tc.value)
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestValidateFieldWrapsValidationError(t *testing.T) {
	err := ValidateField(models.SectionTypeGallery, "columns", 9)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckSEO(t *testing.T) {
	hints := CheckSEO("Short title", strings.Repeat("a", 161))
	if hints.MetaTitleLength != 11 || hints.MetaDescriptionLength != 161 {
		t.Fatalf("unexpected lengths %+v", hints)
	}
	if len(hints.Warnings) != 1 || !strings.Contains(hints.Warnings[0], "160") {
		t.Fatalf("expected a single description warning, got %v", hints.Warnings)
	}

	if hints := CheckSEO(strings.Repeat("é", 60), ""); len(hints.Warnings) != 0 {
		t.Fatalf("expected 60 characters to be within the limit, got %v", hints.Warnings)
	}

	decomposed := CheckSEO(strings.Repeat("e\u0301", 60), "")
	if decomposed.MetaTitleLength != 60 || len(decomposed.Warnings) != 0 {
		t.Fatalf("expected combining marks to count once, got %+v", decomposed)
	}
}
